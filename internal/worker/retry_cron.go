package worker

// retry_cron.go
// Background goroutine that periodically re-attempts receipts stuck in
// pending with a next_retry_at in the past. Skips ticks while the SMTP
// circuit breaker is open — a regenerated receipt would just pile onto a
// dead email queue.

import (
	"context"
	"fmt"
	"time"

	"github.com/NivedanR/capstone-erp/internal/infra"
	"github.com/NivedanR/capstone-erp/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxReceiptRetries is the cap before a receipt is parked in the DLQ.
	MaxReceiptRetries = 3
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	ReceiptRepo repository.ReceiptRepository
	TxnRepo     repository.TransactionRepository
	Dispatcher  *Dispatcher
	CB          *infra.CircuitBreaker
	RDB         *redis.Client
	StoragePath string
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending receipts, and re-attempts PDF generation.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	receipts, err := cfg.ReceiptRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(receipts) == 0 {
		return
	}

	log.Info().Int("count", len(receipts)).Msg("retry_cron: processing pending receipts")

	for i := range receipts {
		rec := &receipts[i]

		txn, err := cfg.TxnRepo.FindByID(ctx, rec.TransactionID)
		if err != nil {
			log.Error().Err(err).Str("receipt_id", rec.ID.String()).Msg("retry_cron: transaction missing")
			continue
		}

		pdfPath, genErr := infra.GenerateReceiptPDF(txn, cfg.StoragePath)
		if genErr != nil {
			rec.RetryCount++
			errMsg := genErr.Error()
			rec.LastError = &errMsg
			next := time.Now().Add(computeRetryBackoff(rec.RetryCount))
			rec.NextRetryAt = &next

			if rec.RetryCount >= MaxReceiptRetries {
				rec.Status = "error"
				rec.NextRetryAt = nil
				log.Error().
					Str("receipt_id", rec.ID.String()).
					Str("transaction_id", rec.TransactionID.String()).
					Int("retries", rec.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to error/DLQ")

				payload := fmt.Sprintf(`{"transaction_id":"%s","receipt_id":"%s"}`, rec.TransactionID, rec.ID)
				SendToDLQ(ctx, cfg.RDB, QueueReceipt, "receipt", []byte(payload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxReceiptRetries, errMsg),
					rec.RetryCount)
			} else {
				log.Warn().
					Str("receipt_id", rec.ID.String()).
					Int("retry_count", rec.RetryCount).
					Time("next_retry_at", *rec.NextRetryAt).
					Msg("retry_cron: generation failed again, scheduled next attempt")
			}

			_ = cfg.ReceiptRepo.Update(ctx, rec)
			continue
		}

		rec.Status = "generated"
		rec.PDFPath = &pdfPath
		rec.NextRetryAt = nil
		rec.LastError = nil
		_ = cfg.ReceiptRepo.Update(ctx, rec)

		log.Info().
			Str("receipt_id", rec.ID.String()).
			Str("order_id", txn.OrderID).
			Int("total_retries", rec.RetryCount).
			Msg("retry_cron: receipt generated after retry")

		if txn.CustomerEmail != nil && *txn.CustomerEmail != "" {
			_ = cfg.Dispatcher.EnqueueEmail(ctx, EmailJobPayload{
				ToEmail: *txn.CustomerEmail,
				Subject: fmt.Sprintf("Receipt for order %s", txn.OrderID),
				Body:    fmt.Sprintf("Thank you for your purchase.\nTotal: $%s", txn.TotalAmount.StringFixed(2)),
				PDFPath: pdfPath,
			})
		}
	}
}

// computeRetryBackoff returns the wait before the next cron-driven attempt:
// 1m, 2m, 4m ...
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	return time.Duration(1<<uint(retryCount-1)) * time.Minute
}
