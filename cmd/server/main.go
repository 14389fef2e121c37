package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cindyyylam/mj-quizarium/internal/config"
	"github.com/cindyyylam/mj-quizarium/internal/database"
	"github.com/cindyyylam/mj-quizarium/internal/game"
	"github.com/cindyyylam/mj-quizarium/internal/handlers"
	"github.com/cindyyylam/mj-quizarium/internal/middleware"
	"github.com/cindyyylam/mj-quizarium/internal/services"
	"github.com/cindyyylam/mj-quizarium/internal/telegram"
	"github.com/cindyyylam/mj-quizarium/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	questionService := services.NewQuestionService(db)
	stateService := services.NewStateService(db)
	leaderboardService := services.NewLeaderboardService(db)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("failed to create telegram bot: %v", err)
	}
	if cfg.BotUsername == "" {
		cfg.BotUsername = api.Self.UserName
	}
	log.Printf("authorized as @%s", api.Self.UserName)

	engine := game.NewEngine(game.Config{
		HintInterval:  cfg.Game.HintInterval,
		RevealPause:   cfg.Game.RevealPause,
		AnswerPause:   cfg.Game.AnswerPause,
		StartDelay:    cfg.Game.StartDelay,
		DefaultRounds: cfg.Game.DefaultRounds,
		ExtendRounds:  cfg.Game.ExtendRounds,
	}, game.Deps{
		Questions:   questionService,
		Sessions:    stateService,
		Leaderboard: leaderboardService,
		Messenger:   telegram.NewClient(api),
		Events:      hub,
	})
	defer engine.Shutdown()

	bot := telegram.NewBot(api, telegram.NewUpdateHandler(engine, cfg.BotUsername), telegram.BotOptions{
		Token:          cfg.BotToken,
		WebhookBaseURL: cfg.WebhookBaseURL,
		WebhookSecret:  cfg.WebhookSecret,
	})

	questionHandler := handlers.NewQuestionHandler(questionService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	healthHandler := handlers.NewHealthHandler(db)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.AdminKeyHeader},
		AllowCredentials: true,
	}))

	r.GET("/healthz", healthHandler.Health)
	r.GET("/ws/chat/:id", wsHandler.HandleWebSocket)
	if bot.Webhook() {
		r.POST("/webhook/:secret", bot.HandleWebhook)
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		v1.GET("/questions", questionHandler.ListQuestions)
		v1.GET("/questions/:id", questionHandler.GetQuestion)

		questions := v1.Group("/questions")
		questions.Use(middleware.AdminAuth(cfg.AdminAPIKey))
		{
			questions.POST("", questionHandler.CreateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + cfg.ServerPort, Handler: r}
	go func() {
		log.Printf("server starting on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	if err := bot.Start(ctx); err != nil {
		log.Fatalf("failed to start telegram bot: %v", err)
	}

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	bot.Stop()
}
