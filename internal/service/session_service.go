package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"avatar-trainer-be/internal/constant"
	"avatar-trainer-be/internal/dto"
	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/mapper"
	"avatar-trainer-be/internal/pkg/logger"
	"avatar-trainer-be/internal/pkg/mailer"
	"avatar-trainer-be/internal/repository/specification"
	"avatar-trainer-be/internal/repository/unitofwork"
	"avatar-trainer-be/pkg/dialogue"
	"avatar-trainer-be/pkg/events"
	"avatar-trainer-be/pkg/moderation"
	"avatar-trainer-be/pkg/scenario"
	"avatar-trainer-be/pkg/scoring"
)

var (
	ErrEmptyAnswer     = errors.New("answer is empty")
	ErrSessionNotFound = errors.New("session not found")
	ErrScenarioMissing = errors.New("no scenario resolvable for this session")
)

// IEventPublisher sends session lifecycle events to the bus. Failures are
// logged, never surfaced to the trainee.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ISessionService is the authoritative state machine for one training or exam
// dialogue. Submissions for one session id must be serialized by the caller.
type ISessionService interface {
	Start(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	SubmitAnswer(ctx context.Context, sessionId uuid.UUID, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	Show(ctx context.Context, sessionId uuid.UUID) (*dto.ShowSessionResponse, error)
	Report(ctx context.Context, sessionId uuid.UUID) (*dto.SessionReportResponse, error)
	CreateFeedback(ctx context.Context, sessionId uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error)
}

type SessionConfig struct {
	TrainingSteps int
	ExamSteps     int
	AdminEmail    string
	BaseURL       string
}

type sessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	planner        *scenario.Planner
	evaluator      *scoring.Evaluator
	detector       *moderation.Detector
	generator      *dialogue.Generator
	eventPublisher IEventPublisher
	emailService   mailer.IEmailService
	evalMapper     *mapper.EvaluationMapper
	cfg            SessionConfig
	logger         logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	planner *scenario.Planner,
	evaluator *scoring.Evaluator,
	detector *moderation.Detector,
	generator *dialogue.Generator,
	eventPublisher IEventPublisher,
	emailService mailer.IEmailService,
	cfg SessionConfig,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:     uowFactory,
		planner:        planner,
		evaluator:      evaluator,
		detector:       detector,
		generator:      generator,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		evalMapper:     mapper.NewEvaluationMapper(),
		cfg:            cfg,
		logger:         log,
	}
}

func (s *sessionService) Start(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	mode := req.Mode
	if mode == "" {
		mode = constant.ModeTraining
	}

	var plan *scenario.Plan
	var stepsTotal int
	var opener dialogue.ClientTurn

	if req.FixtureScenarioId != "" {
		fixture, ok := dialogue.FindFixture(req.FixtureScenarioId)
		if !ok {
			return nil, ErrScenarioMissing
		}
		p := fixture.Plan
		plan = &p
		stepsTotal = fixture.Steps()
		cue := fixture.Cue(0)
		opener = dialogue.ClientTurn{
			Text:    cue.Text,
			Emotion: dialogue.Emotion{Tag: cue.EmotionTag, Intensity: cue.Intensity},
		}
	} else {
		generated, err := s.planner.Generate(ctx, mode)
		if err != nil {
			return nil, err
		}
		plan = generated
		stepsTotal = s.cfg.TrainingSteps
		if mode == constant.ModeExam {
			stepsTotal = s.cfg.ExamSteps
		}

		archetype, err := uow.ArchetypeRepository().FindById(ctx, plan.ArchetypeId)
		if err != nil {
			s.logger.Warn("SessionService", "archetype lookup failed at start", map[string]interface{}{"error": err.Error()})
		}
		opener = dialogue.ClientTurn{
			Text:    scenario.InitialClientMessage(archetype),
			Emotion: dialogue.DeriveEmotion(plan.Persona, 0),
		}
	}

	session := &entity.Session{
		TraineeName:       req.TraineeName,
		TraineeEmail:      req.TraineeEmail,
		Mode:              mode,
		Plan:              plan,
		FixtureScenarioId: req.FixtureScenarioId,
		StepsTotal:        stepsTotal,
		Status:            constant.StatusActive,
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	firstTurn := &entity.Turn{
		SessionId: session.Id,
		Role:      constant.RoleClient,
		Text:      opener.Text,
	}
	if err := uow.TurnRepository().Create(ctx, firstTurn); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewSessionStarted(session.Id.String(), session.TraineeName, mode))

	return &dto.StartSessionResponse{
		SessionId:  session.Id,
		Mode:       mode,
		StepsTotal: stepsTotal,
		Plan:       plan,
		FirstClientTurn: &dto.ClientTurnResponse{
			Id:         firstTurn.Id,
			Text:       firstTurn.Text,
			EmotionTag: opener.Emotion.Tag,
			Intensity:  opener.Emotion.Intensity,
			Persona:    plan.Persona,
		},
	}, nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, sessionId uuid.UUID, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	// Terminal sessions answer with their stored result, unchanged.
	if session.Terminal() {
		pass := session.PassFail == constant.VerdictPass
		return &dto.SubmitAnswerResponse{
			Done:       true,
			Pass:       &pass,
			Terminated: session.Status == constant.StatusTerminatedFail,
			Reason:     session.TerminationReason,
			TotalScore: session.TotalScore,
		}, nil
	}

	// Any moderation-table match terminates before scoring, whatever the
	// step counter says. Softer brush-offs still reach the evaluator.
	abuse := s.detector.Detect(answer)
	if abuse.IsAbusive {
		return s.terminateForAbuse(ctx, uow, session, answer, abuse)
	}

	plan, fixture, err := s.resolvePlan(session)
	if err != nil {
		return nil, err
	}

	traineeTurn := &entity.Turn{
		SessionId: session.Id,
		Role:      constant.RoleTrainee,
		Text:      answer,
	}
	if err := uow.TurnRepository().Create(ctx, traineeTurn); err != nil {
		return nil, err
	}

	evaluation := s.evaluator.Evaluate(ctx, answer, plan)
	record := s.evalMapper.FromResult(session.Id, traineeTurn.Id, evaluation)
	if err := uow.EvaluationRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	traineeTurns, err := uow.TurnRepository().Count(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.ByRole{Role: constant.RoleTrainee},
	)
	if err != nil {
		return nil, err
	}
	currentStep := int(traineeTurns)
	session.CurrentStep = currentStep

	stepsTotal := session.StepsTotal
	if fixture != nil && fixture.Steps() > 0 {
		stepsTotal = fixture.Steps()
	}

	if evaluation.HasFlag(scoring.FlagProfanity) {
		return s.finalizeProfanity(ctx, uow, session, evaluation)
	}

	if evaluation.HasFlag(scoring.FlagResolved) {
		return s.finalize(ctx, uow, session, true, evaluation.Total, "")
	}

	if currentStep >= stepsTotal {
		return s.finalizeByAverage(ctx, uow, session)
	}

	clientTurn, err := s.nextClientTurn(ctx, uow, session, plan, fixture, currentStep, evaluation)
	if err != nil {
		return nil, err
	}

	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.SubmitAnswerResponse{
		Done:       false,
		ClientTurn: clientTurn,
		Evaluation: evaluation,
		Step:       currentStep,
	}, nil
}

func (s *sessionService) resolvePlan(session *entity.Session) (*scenario.Plan, *dialogue.Fixture, error) {
	var fixture *dialogue.Fixture
	if session.FixtureScenarioId != "" {
		if f, ok := dialogue.FindFixture(session.FixtureScenarioId); ok {
			fixture = f
		}
	}

	plan := session.Plan
	if plan == nil && fixture != nil {
		p := fixture.Plan
		plan = &p
	}
	if plan == nil {
		return nil, nil, ErrScenarioMissing
	}
	return plan, fixture, nil
}

func (s *sessionService) terminateForAbuse(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, answer string, abuse moderation.Result) (*dto.SubmitAnswerResponse, error) {
	traineeTurn := &entity.Turn{
		SessionId: session.Id,
		Role:      constant.RoleTrainee,
		Text:      answer,
	}
	if err := uow.TurnRepository().Create(ctx, traineeTurn); err != nil {
		return nil, err
	}

	flags := append([]string{scoring.FlagAbuse}, abuse.Categories...)
	record := &entity.Evaluation{
		SessionId: session.Id,
		TurnId:    traineeTurn.Id,
		Flags:     flags,
		Mistakes: []scoring.Record{
			{Id: "abusive_tone", Title: "Недопустимый тон/хамство", Metric: scoring.MetricCompliance, Reason: "Оскорбления/ненормативная лексика"},
		},
		SuggestedAnswer: "В клиентском сервисе недопустимы оскорбления. Используйте нейтральный тон и деэскалацию.",
	}
	if err := uow.EvaluationRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	zero := 0
	session.Status = constant.StatusTerminatedFail
	session.TerminationReason = constant.TerminationAbuse
	session.TotalScore = &zero
	session.PassFail = constant.VerdictFail
	session.FinishedAt = nowPtr()
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewSessionTerminated(session.Id.String(), constant.TerminationAbuse))

	pass := false
	return &dto.SubmitAnswerResponse{
		Done:       true,
		Pass:       &pass,
		Terminated: true,
		Reason:     constant.TerminationAbuse,
		Categories: abuse.Categories,
		TotalScore: &zero,
	}, nil
}

func (s *sessionService) finalizeProfanity(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, evaluation *scoring.Result) (*dto.SubmitAnswerResponse, error) {
	closing := &entity.Turn{
		SessionId: session.Id,
		Role:      constant.RoleClient,
		Text:      dialogue.ClosingThreatLine,
	}
	if err := uow.TurnRepository().Create(ctx, closing); err != nil {
		return nil, err
	}

	// Rude-but-not-abusive endings keep a score floor; the hard zero is
	// reserved for the abuse gate.
	score := evaluation.Total
	if score < 40 {
		score = 40
	}
	return s.finalize(ctx, uow, session, false, score, constant.TerminationProfanity)
}

func (s *sessionService) finalizeByAverage(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session) (*dto.SubmitAnswerResponse, error) {
	evaluations, err := uow.EvaluationRepository().FindAll(ctx, specification.BySessionID{SessionID: session.Id})
	if err != nil {
		return nil, err
	}

	avgTotal, avgCompliance := averageScores(evaluations)
	pass := avgCompliance >= 60 && avgTotal >= 60
	return s.finalize(ctx, uow, session, pass, avgTotal, "")
}

func (s *sessionService) finalize(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, pass bool, totalScore int, terminationReason string) (*dto.SubmitAnswerResponse, error) {
	session.TotalScore = &totalScore
	session.FinishedAt = nowPtr()
	session.TerminationReason = terminationReason
	if pass {
		session.Status = constant.StatusCompletedPass
		session.PassFail = constant.VerdictPass
	} else {
		session.Status = constant.StatusCompletedFail
		session.PassFail = constant.VerdictFail
	}
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewSessionCompleted(session.Id.String(), pass, totalScore))

	if session.Mode == constant.ModeExam {
		s.sendExamReport(session, pass, totalScore)
	}

	return &dto.SubmitAnswerResponse{
		Done:       true,
		Pass:       &pass,
		TotalScore: &totalScore,
	}, nil
}

func (s *sessionService) nextClientTurn(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, plan *scenario.Plan, fixture *dialogue.Fixture, currentStep int, evaluation *scoring.Result) (*dto.ClientTurnResponse, error) {
	var generated dialogue.ClientTurn

	switch {
	case evaluation.HasFlag(scoring.FlagPIIDetected):
		generated = s.generator.Deflect(plan, currentStep)
	case fixture != nil:
		cue := fixture.Cue(currentStep)
		generated = dialogue.ClientTurn{
			Text:    cue.Text,
			Emotion: dialogue.Emotion{Tag: cue.EmotionTag, Intensity: cue.Intensity},
		}
	default:
		history, err := s.loadHistory(ctx, uow, session.Id)
		if err != nil {
			return nil, err
		}
		generated = s.generator.Next(ctx, plan, currentStep, evaluation.Total, history)
	}

	turn := &entity.Turn{
		SessionId: session.Id,
		Role:      constant.RoleClient,
		Text:      generated.Text,
	}
	if err := uow.TurnRepository().Create(ctx, turn); err != nil {
		return nil, err
	}

	return &dto.ClientTurnResponse{
		Id:         turn.Id,
		Text:       turn.Text,
		EmotionTag: generated.Emotion.Tag,
		Intensity:  generated.Emotion.Intensity,
		Persona:    plan.Persona,
	}, nil
}

func (s *sessionService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]dialogue.Turn, error) {
	turns, err := uow.TurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	history := make([]dialogue.Turn, len(turns))
	for i, t := range turns {
		history[i] = dialogue.Turn{Role: t.Role, Text: t.Text}
	}
	return history, nil
}

func (s *sessionService) Show(ctx context.Context, sessionId uuid.UUID) (*dto.ShowSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	turns, err := uow.TurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ShowSessionResponse{
		SessionId:   session.Id,
		TraineeName: session.TraineeName,
		Mode:        session.Mode,
		Status:      session.Status,
		StepsTotal:  session.StepsTotal,
		CurrentStep: session.CurrentStep,
		TotalScore:  session.TotalScore,
		PassFail:    session.PassFail,
		Plan:        session.Plan,
		Turns:       make([]dto.TurnResponse, len(turns)),
	}
	for i, t := range turns {
		res.Turns[i] = dto.TurnResponse{Id: t.Id, Role: t.Role, Text: t.Text, CreatedAt: t.CreatedAt}
	}
	return res, nil
}

func (s *sessionService) Report(ctx context.Context, sessionId uuid.UUID) (*dto.SessionReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	turns, err := uow.TurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	evaluations, err := uow.EvaluationRepository().FindAll(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}

	avgTotal, avgCompliance := averageScores(evaluations)

	res := &dto.SessionReportResponse{
		SessionId:     session.Id,
		TraineeName:   session.TraineeName,
		Mode:          session.Mode,
		Status:        session.Status,
		TotalScore:    session.TotalScore,
		PassFail:      session.PassFail,
		AvgTotal:      avgTotal,
		AvgCompliance: avgCompliance,
		Turns:         make([]dto.TurnResponse, len(turns)),
		Evaluations:   make([]dto.EvaluationResponse, len(evaluations)),
	}
	for i, t := range turns {
		res.Turns[i] = dto.TurnResponse{Id: t.Id, Role: t.Role, Text: t.Text, CreatedAt: t.CreatedAt}
	}
	for i, e := range evaluations {
		res.Evaluations[i] = dto.EvaluationResponse{
			TurnId:          e.TurnId,
			Scores:          e.Scores,
			Total:           e.Total,
			Pass:            e.Pass,
			Flags:           e.Flags,
			Positives:       e.Positives,
			Mistakes:        e.Mistakes,
			SuggestedAnswer: e.SuggestedAnswer,
			Evidence:        e.Evidence,
			Explain:         e.Explain,
		}
		res.Evidence = append(res.Evidence, e.Evidence...)
	}
	return res, nil
}

func (s *sessionService) CreateFeedback(ctx context.Context, sessionId uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	feedback := &entity.Feedback{
		SessionId: sessionId,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := uow.FeedbackRepository().Create(ctx, feedback); err != nil {
		return nil, err
	}
	return &dto.CreateFeedbackResponse{Id: feedback.Id}, nil
}

func (s *sessionService) publish(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("SessionService", "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *sessionService) sendExamReport(session *entity.Session, pass bool, totalScore int) {
	recipient := session.TraineeEmail
	if recipient == "" {
		recipient = s.cfg.AdminEmail
	}
	if s.emailService == nil || recipient == "" {
		return
	}
	reportURL := s.cfg.BaseURL + "/api/session/v1/" + session.Id.String() + "/report"
	if err := s.emailService.SendExamReport(recipient, session.TraineeName, pass, totalScore, reportURL); err != nil {
		s.logger.Warn("SessionService", "failed to send exam report", map[string]interface{}{"error": err.Error()})
	}
}

func nowPtr() *time.Time {
	now := time.Now()
	return &now
}

// averageScores mirrors the supervisor rule: an empty evaluation list reads
// as a clean session rather than a failed one.
func averageScores(evaluations []*entity.Evaluation) (avgTotal int, avgCompliance int) {
	if len(evaluations) == 0 {
		return 80, 90
	}
	sumTotal, sumCompliance := 0, 0
	for _, e := range evaluations {
		sumTotal += e.Total
		sumCompliance += e.Scores.Compliance
	}
	n := len(evaluations)
	avgTotal = (sumTotal + n/2) / n
	avgCompliance = (sumCompliance + n/2) / n
	return avgTotal, avgCompliance
}
