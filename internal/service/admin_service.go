package service

import (
	"context"
	"errors"

	"avatar-trainer-be/internal/dto"
	"avatar-trainer-be/internal/mapper"
	"avatar-trainer-be/internal/pkg/logger"
	"avatar-trainer-be/internal/pkg/serverutils"
	"avatar-trainer-be/internal/repository/specification"
	"avatar-trainer-be/internal/repository/unitofwork"
	"avatar-trainer-be/pkg/scenario"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type IAdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	ListSessions(ctx context.Context, status, mode string, limit, offset int) ([]*dto.SessionSummaryResponse, error)
	UpsertArchetype(ctx context.Context, req *dto.CreateArchetypeRequest) error
	ListArchetypes(ctx context.Context) ([]*scenario.Archetype, error)
	Logs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type AdminConfig struct {
	Email        string
	PasswordHash string
	JWTSecret    string
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        AdminConfig
	logger     logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, cfg AdminConfig, log logger.ILogger) IAdminService {
	return &adminService{uowFactory: uowFactory, cfg: cfg, logger: log}
}

func (s *adminService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if req.Email != s.cfg.Email || !serverutils.CheckPassword(s.cfg.PasswordHash, req.Password) {
		s.logger.Warn("AdminService", "rejected admin login", map[string]interface{}{"email": req.Email})
		return nil, ErrInvalidCredentials
	}

	token, err := serverutils.IssueAdminToken(req.Email, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &dto.AdminLoginResponse{Token: token}, nil
}

func (s *adminService) ListSessions(ctx context.Context, status, mode string, limit, offset int) ([]*dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}
	if mode != "" {
		specs = append(specs, specification.ByMode{Mode: mode})
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	sessions, err := uow.SessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionSummaryResponse, len(sessions))
	for i, sess := range sessions {
		res[i] = &dto.SessionSummaryResponse{
			SessionId:   sess.Id,
			TraineeName: sess.TraineeName,
			Mode:        sess.Mode,
			Status:      sess.Status,
			TotalScore:  sess.TotalScore,
			PassFail:    sess.PassFail,
			CreatedAt:   sess.CreatedAt,
		}
	}
	return res, nil
}

func (s *adminService) UpsertArchetype(ctx context.Context, req *dto.CreateArchetypeRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ArchetypeRepository().Upsert(ctx, mapper.ArchetypeFromRequest(req))
}

func (s *adminService) ListArchetypes(ctx context.Context) ([]*scenario.Archetype, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ArchetypeRepository().FindAll(ctx)
}

func (s *adminService) Logs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.logger.GetLogs(level, limit, offset)
}
