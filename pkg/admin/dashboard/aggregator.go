package dashboard

import (
	"context"
	"time"

	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/repository/specification"
	"food-donation-be/internal/repository/unitofwork"
)

// Aggregator builds the admin dashboard figures.
type Aggregator struct {
	logger logger.ILogger
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetReport counts users, donations by effective status, and waste logs by type.
func (a *Aggregator) GetReport(ctx context.Context, uow unitofwork.UnitOfWork, today time.Time) (*dto.AdminReportResponse, error) {
	users, err := a.userReport(ctx, uow)
	if err != nil {
		return nil, err
	}
	donations, err := a.donationReport(ctx, uow, today)
	if err != nil {
		return nil, err
	}

	wasteTotal, err := uow.WasteLogRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := uow.WasteLogRepository().CountBy(ctx, "waste_type")
	if err != nil {
		return nil, err
	}

	return &dto.AdminReportResponse{
		Users:     *users,
		Donations: *donations,
		WasteLogs: dto.WasteReport{Total: wasteTotal, ByType: byType},
	}, nil
}

func (a *Aggregator) userReport(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.UserReport, error) {
	repo := uow.UserRepository()
	counts := make([]int64, 0, 6)
	for _, specs := range [][]specification.Specification{
		nil,
		{specification.ByRole{Role: string(entity.UserRoleAdmin)}},
		{specification.ByRole{Role: string(entity.UserRoleDonor)}},
		{specification.ByRole{Role: string(entity.UserRoleCharity)}},
		{specification.ByVerified{Verified: true}},
	} {
		n, err := repo.Count(ctx, specs...)
		if err != nil {
			return nil, err
		}
		counts = append(counts, n)
	}
	return &dto.UserReport{
		Total:      counts[0],
		Admins:     counts[1],
		Donors:     counts[2],
		Charities:  counts[3],
		Verified:   counts[4],
		Unverified: counts[0] - counts[4],
	}, nil
}

func (a *Aggregator) donationReport(ctx context.Context, uow unitofwork.UnitOfWork, today time.Time) (*dto.DonationReport, error) {
	repo := uow.DonationRepository()
	counts := make([]int64, 0, 5)
	for _, spec := range []specification.Specification{
		nil,
		specification.EffectivelyAvailable{Today: today},
		specification.ByStatus{Status: string(entity.DonationStatusClaimed)},
		specification.ByStatus{Status: string(entity.DonationStatusReceived)},
		specification.EffectivelyExpired{Today: today},
	} {
		var specs []specification.Specification
		if spec != nil {
			specs = append(specs, spec)
		}
		n, err := repo.Count(ctx, specs...)
		if err != nil {
			return nil, err
		}
		counts = append(counts, n)
	}
	return &dto.DonationReport{
		Total:     counts[0],
		Available: counts[1],
		Claimed:   counts[2],
		Received:  counts[3],
		Expired:   counts[4],
	}, nil
}

// GetSystemLogs reads back the structured log file, newest first.
func (a *Aggregator) GetSystemLogs(ctx context.Context, loggerSvc logger.ILogger, req *dto.LogListRequest) ([]*dto.LogListResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = 50
	}
	logs, err := loggerSvc.GetLogs(logger.LogQuery{
		Level:  req.Level,
		Module: req.Module,
		Limit:  limit,
		Offset: req.Offset,
	})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		})
	}
	return res, nil
}

func (a *Aggregator) GetLogDetail(ctx context.Context, loggerSvc logger.ILogger, logId string) (*dto.LogListResponse, error) {
	l, err := loggerSvc.GetLogById(logId)
	if err != nil {
		return nil, err
	}
	return &dto.LogListResponse{
		Id:        l.Id,
		Level:     l.Level,
		Module:    l.Module,
		Message:   l.Message,
		Timestamp: l.Timestamp,
		Details:   l.Details,
	}, nil
}
