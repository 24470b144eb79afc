// cmd/server/main.go
package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/bulkmailer-backend/internal/controller"
	"github.com/unclebandit/bulkmailer-backend/internal/mailer"
	"github.com/unclebandit/bulkmailer-backend/internal/model"
	"github.com/unclebandit/bulkmailer-backend/internal/queue"
	"github.com/unclebandit/bulkmailer-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, relying on OS environment variables")
	}

	sender := model.SenderIdentity{
		Email:       os.Getenv("SENDER_EMAIL"),
		AppPassword: os.Getenv("SENDER_APP_PASSWORD"),
		Host:        envOr("SMTP_HOST", "smtp.gmail.com"),
		Port:        envInt("SMTP_PORT", 587),
	}
	if sender.Email == "" || sender.AppPassword == "" {
		logrus.Warn("SENDER_EMAIL / SENDER_APP_PASSWORD not set; batch sends will fail to authenticate")
	}

	q := queue.NewInMemoryQueue(nil)
	delivery := service.NewDeliveryService(openSession, nil)

	batchController := controller.NewBatchController(delivery, q, sender, nil)
	batchController.StartSendSubscriber()

	r := chi.NewRouter()

	// Batch routes
	r.Post("/batches", batchController.CreateBatch)
	r.Get("/batches/{id}/preview", batchController.PreviewBatch)
	r.Post("/batches/{id}/send", batchController.SendBatch)
	r.Get("/batches/{id}", batchController.GetBatch)
	r.Get("/batches/{id}/report", batchController.GetReport)

	addr := ":" + envOr("PORT", "8080")
	logrus.WithField("addr", addr).Info("server running")
	logrus.Fatal(http.ListenAndServe(addr, r))
}

func openSession(identity model.SenderIdentity) (service.MailSession, error) {
	return mailer.Dial(identity)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
