package feedhandler

import (
	"errors"
	"net/http"

	"debatematch/internal/http/authmw"
	"debatematch/internal/services/headlines"
	"debatematch/internal/services/topics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Message string `json:"message"`
} // @name FeedErrorResponse

type Handler struct {
	news   headlines.IHeadlineService
	topics topics.ITopicService
}

func New(news headlines.IHeadlineService, topicSvc topics.ITopicService) *Handler {
	return &Handler{news: news, topics: topicSvc}
}

// Register mounts the feed routes behind auth.
func (h *Handler) Register(r gin.IRouter, verifier authmw.TokenVerifier) {
	auth := r.Group("", authmw.RequireAuth(verifier))
	auth.GET("/news", h.newsFeed)
	auth.GET("/topics", h.topicList)
}

// @Summary		Top headlines
// @Description	US top headlines, cached for five minutes.
// @Tags			Feed
// @Security		AuthToken
// @Success		200	{array}		headlines.Article
// @Failure		503	{object}	ErrorResponse
// @Failure		500	{object}	ErrorResponse
// @Router			/api/news [get]
func (h *Handler) newsFeed(ginCtx *gin.Context) {
	articles, err := h.news.FetchTopHeadlines(ginCtx.Request.Context())
	if err != nil {
		if errors.Is(err, headlines.ErrNotConfigured) {
			ginCtx.JSON(http.StatusServiceUnavailable, &ErrorResponse{Message: "News feed is not available"})
			return
		}
		zap.L().Error("http.news", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Message: "Error fetching news articles"})
		return
	}
	ginCtx.JSON(http.StatusOK, articles)
}

// @Summary		Debate topics
// @Description	The topic catalog with suggestion counts. Topics past the trending threshold report status "trending".
// @Tags			Feed
// @Security		AuthToken
// @Success		200	{array}		topics.Topic
// @Failure		500	{object}	ErrorResponse
// @Router			/api/topics [get]
func (h *Handler) topicList(ginCtx *gin.Context) {
	out, err := h.topics.List(ginCtx.Request.Context())
	if err != nil {
		zap.L().Error("http.topics", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Message: "Error fetching topics"})
		return
	}
	ginCtx.JSON(http.StatusOK, out)
}
