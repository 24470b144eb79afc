// internal/controller/batch_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/bulkmailer-backend/internal/dataset"
	appErrors "github.com/unclebandit/bulkmailer-backend/internal/errors"
	"github.com/unclebandit/bulkmailer-backend/internal/model"
	"github.com/unclebandit/bulkmailer-backend/internal/queue"
	"github.com/unclebandit/bulkmailer-backend/internal/report"
	"github.com/unclebandit/bulkmailer-backend/internal/service"
)

const sendTopic = "batch_sends"

// Batch lifecycle inside the API server. State lives in memory only;
// restarting the process forgets unfinished batches.
const (
	statusPending   = "pending"
	statusQueued    = "queued"
	statusScheduled = "scheduled"
	statusSending   = "sending"
	statusDone      = "done"
	statusFailed    = "failed"
)

type batchEntry struct {
	spec    *model.BatchSpec
	dataset *model.Dataset
	gate    *service.ScheduleGate
	status  string
	report  *model.DeliveryBatch
	failure string
}

type BatchController struct {
	Delivery *service.DeliveryService
	Queue    queue.Queue
	Sender   model.SenderIdentity
	Logger   logrus.FieldLogger

	mu      sync.Mutex
	batches map[string]*batchEntry
}

func NewBatchController(delivery *service.DeliveryService, q queue.Queue, sender model.SenderIdentity, logger logrus.FieldLogger) *BatchController {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BatchController{
		Delivery: delivery,
		Queue:    q,
		Sender:   sender,
		Logger:   logger,
		batches:  make(map[string]*batchEntry),
	}
}

// StartSendSubscriber wires the controller onto the send topic.
func (c *BatchController) StartSendSubscriber() {
	if err := c.Queue.Subscribe(sendTopic, c.HandleBatchJob); err != nil {
		c.Logger.WithError(err).Error("failed to subscribe to batch sends")
	}
}

type createBatchRequest struct {
	model.BatchSpec
	CSV string `json:"csv"`
}

func (c *BatchController) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var body createBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	ds, err := dataset.FromCSV([]byte(body.CSV), body.EmailColumn)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	placeholders := service.ExtractPlaceholders(body.Template)
	if err := service.ValidatePlaceholders(placeholders, ds.Columns); err != nil {
		if mf, ok := err.(*appErrors.MissingFieldsError); ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "missing placeholders in dataset",
				"missing": mf.Missing,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	gate, err := service.NewScheduleGate(body.ScheduleAt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	spec := body.BatchSpec
	spec.EmailColumn = ds.EmailColumn
	id := uuid.NewString()

	c.mu.Lock()
	c.batches[id] = &batchEntry{spec: &spec, dataset: ds, gate: gate, status: statusPending}
	c.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           id,
		"status":       statusPending,
		"rows":         len(ds.Rows),
		"placeholders": placeholders,
		"email_column": ds.EmailColumn,
	})
}

// PreviewBatch renders the template against the first dataset row, the same
// way the delivery run will.
func (c *BatchController) PreviewBatch(w http.ResponseWriter, r *http.Request) {
	entry, ok := c.entry(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "batch not found", http.StatusNotFound)
		return
	}
	if len(entry.dataset.Rows) == 0 {
		http.Error(w, "dataset has no rows", http.StatusUnprocessableEntity)
		return
	}

	placeholders := service.ExtractPlaceholders(entry.spec.Template)
	fields := service.ResolveFields(entry.dataset.Rows[0], placeholders, entry.spec.ExtraFields)
	preview, err := service.RenderTemplate(entry.spec.Template, fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preview": preview})
}

func (c *BatchController) SendBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c.mu.Lock()
	entry, ok := c.batches[id]
	if ok && entry.status != statusPending {
		c.mu.Unlock()
		http.Error(w, "batch already dispatched", http.StatusConflict)
		return
	}
	if ok {
		entry.status = statusQueued
	}
	c.mu.Unlock()

	if !ok {
		http.Error(w, "batch not found", http.StatusNotFound)
		return
	}

	if err := c.Queue.Publish(sendTopic, id); err != nil {
		c.setStatus(id, statusPending, "")
		http.Error(w, "failed to queue batch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"id": id, "status": statusQueued})
}

// HandleBatchJob runs one queued batch. It cooperatively waits on the
// schedule gate, re-evaluating until the gate arms.
func (c *BatchController) HandleBatchJob(payload any) error {
	id, ok := payload.(string)
	if !ok {
		c.Logger.Warn("invalid batch job payload")
		return nil
	}
	entry, found := c.entry(id)
	if !found {
		c.Logger.WithField("batch", id).Warn("queued batch not found")
		return nil
	}

	for {
		state, remaining := entry.gate.Evaluate(time.Now())
		if state == service.GateArmed {
			break
		}
		c.setStatus(id, statusScheduled, "")
		c.Logger.WithFields(logrus.Fields{"batch": id, "remaining": remaining.Round(time.Second)}).Info("batch deferred by schedule")
		if remaining > 30*time.Second {
			remaining = 30 * time.Second
		}
		time.Sleep(remaining)
	}

	c.setStatus(id, statusSending, "")
	batch, err := c.Delivery.Run(entry.dataset, entry.spec, c.Sender)
	if err != nil {
		c.setStatus(id, statusFailed, err.Error())
		return err
	}

	c.mu.Lock()
	entry.report = batch
	entry.status = statusDone
	c.mu.Unlock()
	return nil
}

func (c *BatchController) GetBatch(w http.ResponseWriter, r *http.Request) {
	entry, ok := c.entry(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "batch not found", http.StatusNotFound)
		return
	}

	c.mu.Lock()
	resp := map[string]any{
		"status": entry.status,
		"total":  len(entry.dataset.Rows),
	}
	if entry.gate.Scheduled() && !entry.gate.Target().IsZero() {
		resp["scheduled_for"] = entry.gate.Target()
	}
	if entry.report != nil {
		sent, failed := entry.report.Counts()
		resp["sent"] = sent
		resp["failed"] = failed
	}
	if entry.failure != "" {
		resp["error"] = entry.failure
	}
	c.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (c *BatchController) GetReport(w http.ResponseWriter, r *http.Request) {
	entry, ok := c.entry(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "batch not found", http.StatusNotFound)
		return
	}

	c.mu.Lock()
	batch := entry.report
	c.mu.Unlock()
	if batch == nil {
		http.Error(w, "report not ready", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="email_status.csv"`)
	if err := report.WriteCSV(w, batch); err != nil {
		c.Logger.WithError(err).Error("failed to write report")
	}
}

func (c *BatchController) entry(id string) (*batchEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.batches[id]
	return entry, ok
}

func (c *BatchController) setStatus(id, status, failure string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.batches[id]; ok {
		entry.status = status
		entry.failure = failure
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}
