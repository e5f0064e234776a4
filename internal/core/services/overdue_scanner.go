package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// OverdueScanner publishes the overdue loans on a cron schedule
type OverdueScanner struct {
	lending *LendingService
	cron    *cron.Cron
	timeout time.Duration
}

// NewOverdueScanner creates a scanner running on spec, a standard five-field cron expression
func NewOverdueScanner(lending *LendingService, spec string) (*OverdueScanner, error) {
	s := &OverdueScanner{
		lending: lending,
		cron:    cron.New(),
		timeout: time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.Scan); err != nil {
		return nil, fmt.Errorf("invalid overdue scan schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background
func (s *OverdueScanner) Start() {
	s.cron.Start()
	log.Println("🚀 Overdue scanner started")
}

// Stop stops the schedule and waits for a running scan to finish
func (s *OverdueScanner) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 Overdue scanner stopped")
}

// Scan looks up the overdue loans once
func (s *OverdueScanner) Scan() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	loans, err := s.lending.ReportOverdue(ctx)
	if err != nil {
		log.Printf("❌ Overdue scan error: %v", err)
		return
	}
	log.Printf("📚 Overdue scan: %d loan(s) overdue", len(loans))
}
