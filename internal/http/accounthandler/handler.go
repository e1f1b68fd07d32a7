package accounthandler

import (
	"errors"
	"net/http"

	"debatematch/internal/http/authmw"
	"debatematch/internal/services/identity"
	"debatematch/internal/services/values"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	identity identity.IIdentityService
	values   values.IValuesService
}

func New(identitySvc identity.IIdentityService, valuesSvc values.IValuesService) *Handler {
	return &Handler{identity: identitySvc, values: valuesSvc}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/register", h.register)
	r.POST("/login", h.login)

	auth := r.Group("", authmw.RequireAuth(h.identity))
	auth.GET("/user", h.user)
	auth.POST("/value-identification", h.valueIdentification)
	auth.POST("/value-identification/reset", h.resetValueIdentification)
}

// @Summary		Register a user
// @Description	Creates an account and returns a session token valid for one hour.
// @Tags			Account
// @Param			body	body		RegisterBody	true	"New account"
// @Success		201		{object}	SessionResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		500		{object}	ErrorResponse
// @Router			/api/register [post]
func (h *Handler) register(ginCtx *gin.Context) {
	var body RegisterBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Message: "All fields are required"})
		return
	}

	sess, err := h.identity.Register(ginCtx.Request.Context(), identity.RegisterInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		var verr *identity.ValidationError
		switch {
		case errors.As(err, &verr):
			ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Message: verr.Msg})
		case errors.Is(err, identity.ErrUserExists):
			ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Message: "Username or email already exists"})
		default:
			zap.L().Error("http.register", zap.Error(err))
			ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Message: "Server error during registration"})
		}
		return
	}

	resp := toSessionResponse(sess)
	resp.Message = "User registered successfully. Please complete the value identification process."
	ginCtx.JSON(http.StatusCreated, resp)
}

// @Summary		Log in
// @Tags			Account
// @Param			body	body		LoginBody	true	"Credentials"
// @Success		200		{object}	SessionResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		500		{object}	ErrorResponse
// @Router			/api/login [post]
func (h *Handler) login(ginCtx *gin.Context) {
	var body LoginBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Message: "Invalid credentials"})
		return
	}
	sess, err := h.identity.Login(ginCtx.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Message: "Invalid credentials"})
			return
		}
		zap.L().Error("http.login", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Message: "Server error during login"})
		return
	}
	ginCtx.JSON(http.StatusOK, toSessionResponse(sess))
}

// @Summary		Current user
// @Description	Profile of the token's owner, without the password hash.
// @Tags			Account
// @Security		AuthToken
// @Success		200	{object}	identity.UserDTO
// @Failure		401	{object}	ErrorResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/api/user [get]
func (h *Handler) user(ginCtx *gin.Context) {
	u, err := h.identity.GetUser(ginCtx.Request.Context(), authmw.UserID(ginCtx))
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Message: "User not found"})
			return
		}
		zap.L().Error("http.user", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Message: "Server error while fetching user data"})
		return
	}
	ginCtx.JSON(http.StatusOK, u)
}

// @Summary		Value identification step
// @Description	Sends one answer to the values questionnaire. The last step stores the summary on the profile.
// @Tags			Account
// @Security		AuthToken
// @Param			body	body		ValueIdentificationBody	true	"Answer"
// @Success		200		{object}	ValueIdentificationResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		404		{object}	ErrorResponse
// @Failure		500		{object}	ErrorResponse
// @Router			/api/value-identification [post]
func (h *Handler) valueIdentification(ginCtx *gin.Context) {
	var body ValueIdentificationBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Message: "Message is required"})
		return
	}

	p, err := h.values.Advance(ginCtx.Request.Context(), authmw.UserID(ginCtx), body.Message, body.IsComplete)
	if err != nil {
		switch {
		case errors.Is(err, values.ErrEmptyMessage):
			ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Message: "Message is required"})
		case errors.Is(err, identity.ErrUserNotFound):
			ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Message: "User not found"})
		default:
			zap.L().Error("http.value_identification", zap.Error(err))
			ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Message: "Error during value identification process"})
		}
		return
	}

	if p.Complete {
		ginCtx.JSON(http.StatusOK, &ValueIdentificationResponse{
			Message:   "Value identification completed",
			Values:    p.Reply,
			Progress:  p.ProgressPercent,
			Completed: true,
		})
		return
	}
	ginCtx.JSON(http.StatusOK, &ValueIdentificationResponse{Message: p.Reply, Progress: p.ProgressPercent})
}

// @Summary		Restart value identification
// @Tags			Account
// @Security		AuthToken
// @Success		204
// @Failure		500	{object}	ErrorResponse
// @Router			/api/value-identification/reset [post]
func (h *Handler) resetValueIdentification(ginCtx *gin.Context) {
	if err := h.values.Reset(ginCtx.Request.Context(), authmw.UserID(ginCtx)); err != nil {
		zap.L().Error("http.value_identification_reset", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Message: "Error during value identification process"})
		return
	}
	ginCtx.Status(http.StatusNoContent)
}

func toSessionResponse(s *identity.Session) *SessionResponse {
	return &SessionResponse{
		Token:                        s.Token,
		UserID:                       s.UserID,
		Username:                     s.Username,
		ValueIdentificationCompleted: s.ValueIdentificationCompleted,
	}
}
