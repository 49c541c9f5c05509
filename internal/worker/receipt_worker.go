package worker

// receipt_worker.go
// Processes receipt generation jobs from QueueReceipt: renders the PDF for a
// completed transaction and hands it to the email queue when the customer left
// an address. Failed generations are left pending with a next_retry_at so the
// retry cron picks them up.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NivedanR/capstone-erp/internal/infra"
	"github.com/NivedanR/capstone-erp/internal/model"
	"github.com/NivedanR/capstone-erp/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	TransactionID string `json:"transaction_id"`
}

type ReceiptWorker struct {
	receiptRepo repository.ReceiptRepository
	txnRepo     repository.TransactionRepository
	dispatcher  *Dispatcher
	storagePath string
}

func NewReceiptWorker(
	receiptRepo repository.ReceiptRepository,
	txnRepo repository.TransactionRepository,
	dispatcher *Dispatcher,
	storagePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		receiptRepo: receiptRepo,
		txnRepo:     txnRepo,
		dispatcher:  dispatcher,
		storagePath: storagePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the transaction with its items
//  3. Create (or reuse) the Receipt record in pending state
//  4. Generate the PDF with backoff (3 attempts)
//  5. Mark generated and enqueue the customer email, or schedule a retry
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	txnID, err := uuid.Parse(payload.TransactionID)
	if err != nil {
		log.Error().Str("transaction_id", payload.TransactionID).Msg("receipt_worker: invalid transaction_id")
		return
	}

	txn, err := w.txnRepo.FindByID(ctx, txnID)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", payload.TransactionID).Msg("receipt_worker: transaction not found")
		return
	}

	rec, err := w.receiptRepo.FindByTransactionID(ctx, txnID)
	if err != nil {
		rec = &model.Receipt{TransactionID: txnID, Status: "pending"}
		if err := w.receiptRepo.Create(ctx, rec); err != nil {
			log.Error().Err(err).Str("transaction_id", payload.TransactionID).Msg("receipt_worker: failed to create receipt")
			return
		}
	} else if rec.Status == "generated" {
		log.Debug().Str("transaction_id", payload.TransactionID).Msg("receipt_worker: receipt already generated")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateReceiptPDF(txn, w.storagePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("transaction_id", payload.TransactionID).
				Msg("receipt_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})

	if genErr != nil {
		rec.RetryCount++
		errMsg := genErr.Error()
		rec.LastError = &errMsg
		next := time.Now().Add(computeRetryBackoff(rec.RetryCount))
		rec.NextRetryAt = &next
		_ = w.receiptRepo.Update(ctx, rec)
		log.Error().Err(genErr).Str("transaction_id", payload.TransactionID).Msg("receipt_worker: generation failed, retry scheduled")
		return
	}

	rec.Status = "generated"
	rec.PDFPath = &pdfPath
	rec.NextRetryAt = nil
	rec.LastError = nil
	if err := w.receiptRepo.Update(ctx, rec); err != nil {
		log.Error().Err(err).Str("transaction_id", payload.TransactionID).Msg("receipt_worker: failed to update receipt")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("order_id", txn.OrderID).Msg("receipt_worker: PDF generated")

	if txn.CustomerEmail != nil && *txn.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *txn.CustomerEmail,
			Subject: fmt.Sprintf("Receipt for order %s", txn.OrderID),
			Body:    fmt.Sprintf("Thank you for your purchase.\nTotal: $%s", txn.TotalAmount.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *txn.CustomerEmail).Msg("receipt_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
