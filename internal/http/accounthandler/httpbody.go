package accounthandler

type RegisterBody struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email"    example:"alice@example.com"`
	Password string `json:"password" example:"correct horse"`
} // @name RegisterRequest

type LoginBody struct {
	Email    string `json:"email"    binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse"`
} // @name LoginRequest

type SessionResponse struct {
	Token                        string `json:"token"`
	UserID                       string `json:"userId"`
	Username                     string `json:"username"`
	ValueIdentificationCompleted bool   `json:"valueIdentificationCompleted"`
	Message                      string `json:"message,omitempty"`
} // @name SessionResponse

type ValueIdentificationBody struct {
	Message    string `json:"message"    binding:"required" example:"Honesty matters most to me."`
	IsComplete bool   `json:"isComplete" example:"false"`
} // @name ValueIdentificationRequest

type ValueIdentificationResponse struct {
	Message   string `json:"message"`
	Values    string `json:"values,omitempty"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
} // @name ValueIdentificationResponse

type ErrorResponse struct {
	Message string `json:"message"`
} // @name ErrorResponse
