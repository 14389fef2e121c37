package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/cindyyylam/mj-quizarium/internal/models"
	"github.com/cindyyylam/mj-quizarium/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService *services.QuestionService
}

func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

type CreateQuestionRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Author   string `json:"author"`
	Username string `json:"username"`
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.SelectAll(c.Request.Context())
	if err != nil {
		log.Printf("[api] list questions: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	q, err := h.questionService.Get(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrQuestionNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "question not found"})
		return
	}
	if err != nil {
		log.Printf("[api] get question %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load question"})
		return
	}
	c.JSON(http.StatusOK, q)
}

// CreateQuestion requires the admin key.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	q := &models.Question{
		Text:     strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
		Author:   strings.TrimSpace(req.Author),
		Username: strings.TrimPrefix(strings.TrimSpace(req.Username), "@"),
	}
	if q.Text == "" || q.Answer == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "question and answer must not be blank"})
		return
	}
	if q.Author == "" {
		q.Author = "Admin"
	}

	if err := h.questionService.Insert(c.Request.Context(), q); err != nil {
		log.Printf("[api] create question: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save question"})
		return
	}
	c.JSON(http.StatusCreated, q)
}

// DeleteQuestion answers 404 for an unknown id.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	err = h.questionService.Delete(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrQuestionNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "question not found"})
		return
	}
	if err != nil {
		log.Printf("[api] delete question %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete question"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}
