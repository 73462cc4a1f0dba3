package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Service handles report review and sanctions.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns a page of reports in the given review state.
func (s *Service) List(ctx context.Context, status Status, page, perPage int) ([]Report, shared.Pagination, error) {
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, shared.Pagination{}, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	p := shared.NewPagination(page, perPage, 0)
	reports, total, err := s.repo.List(ctx, status, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return reports, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// Review moves a pending report to RESOLVED or REJECTED.
func (s *Service) Review(ctx context.Context, actor shared.Principal, reportID string, status Status) (*Report, error) {
	if !status.Resolvable() {
		return nil, fmt.Errorf("%w: status must be RESOLVED or REJECTED", httpx.ErrValidation)
	}
	current, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusPending {
		return nil, fmt.Errorf("%w: report already %s", httpx.ErrConflict, current.Status)
	}

	report, err := s.repo.UpdateStatus(ctx, reportID, status)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "REPORT_" + string(status),
			Entity:   "report",
			EntityID: reportID,
		})
	}
	return report, nil
}

// BanByReport bans the reported user and resolves the report. A nil
// duration is a permanent ban.
func (s *Service) BanByReport(ctx context.Context, actor shared.Principal, reportID, reason string, durationInDays *int) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: ban reason required", httpx.ErrValidation)
	}
	if durationInDays != nil && *durationInDays <= 0 {
		return fmt.Errorf("%w: ban duration must be positive", httpx.ErrValidation)
	}

	report, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Status != StatusPending {
		return fmt.Errorf("%w: report already %s", httpx.ErrConflict, report.Status)
	}

	ban := Ban{
		UserID:         report.ReportedUserID,
		Reason:         reason,
		DurationInDays: durationInDays,
		BannedBy:       actor.ID,
	}
	if err := s.repo.BanByReport(ctx, reportID, ban); err != nil {
		return err
	}

	if s.audit != nil {
		details := map[string]any{"reason": reason}
		if durationInDays != nil {
			details["durationInDays"] = *durationInDays
		}
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "USER_BANNED",
			Entity:   "user",
			EntityID: report.ReportedUserID,
			Details:  details,
		})
	}
	return nil
}
