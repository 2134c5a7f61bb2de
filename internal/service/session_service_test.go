package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-trainer-be/internal/constant"
	"avatar-trainer-be/internal/dto"
	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/pkg/logger"
	"avatar-trainer-be/internal/repository/contract"
	"avatar-trainer-be/internal/repository/specification"
	"avatar-trainer-be/internal/repository/unitofwork"
	"avatar-trainer-be/pkg/dialogue"
	"avatar-trainer-be/pkg/events"
	"avatar-trainer-be/pkg/moderation"
	"avatar-trainer-be/pkg/retrieval"
	"avatar-trainer-be/pkg/scenario"
	"avatar-trainer-be/pkg/scoring"
)

// --- in-memory fakes ---

type fakeStore struct {
	sessions    map[uuid.UUID]*entity.Session
	turns       []*entity.Turn
	evaluations []*entity.Evaluation
	feedbacks   []*entity.Feedback
	archetypes  map[string]*scenario.Archetype
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:   make(map[uuid.UUID]*entity.Session),
		archetypes: make(map[string]*scenario.Archetype),
	}
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.Session) error {
	s.Id = uuid.New()
	s.CreatedAt = time.Now()
	r.store.sessions[s.Id] = s
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, s *entity.Session) error {
	r.store.sessions[s.Id] = s
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if s, found := r.store.sessions[byID.ID]; found {
				return s, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	out := make([]*entity.Session, 0, len(r.store.sessions))
	for _, s := range r.store.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.sessions)), nil
}

type fakeTurnRepo struct{ store *fakeStore }

func (r *fakeTurnRepo) Create(ctx context.Context, t *entity.Turn) error {
	t.Id = uuid.New()
	t.CreatedAt = time.Now().Add(time.Duration(len(r.store.turns)) * time.Millisecond)
	r.store.turns = append(r.store.turns, t)
	return nil
}

func (r *fakeTurnRepo) match(t *entity.Turn, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.BySessionID:
			if t.SessionId != s.SessionID {
				return false
			}
		case specification.ByRole:
			if t.Role != s.Role {
				return false
			}
		}
	}
	return true
}

func (r *fakeTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error) {
	var out []*entity.Turn
	for _, t := range r.store.turns {
		if r.match(t, specs) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	turns, _ := r.FindAll(ctx, specs...)
	return int64(len(turns)), nil
}

type fakeEvaluationRepo struct{ store *fakeStore }

func (r *fakeEvaluationRepo) Create(ctx context.Context, e *entity.Evaluation) error {
	e.Id = uuid.New()
	r.store.evaluations = append(r.store.evaluations, e)
	return nil
}

func (r *fakeEvaluationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Evaluation, error) {
	var out []*entity.Evaluation
	for _, e := range r.store.evaluations {
		keep := true
		for _, spec := range specs {
			if s, ok := spec.(specification.BySessionID); ok && e.SessionId != s.SessionID {
				keep = false
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeFeedbackRepo struct{ store *fakeStore }

func (r *fakeFeedbackRepo) Create(ctx context.Context, f *entity.Feedback) error {
	f.Id = uuid.New()
	r.store.feedbacks = append(r.store.feedbacks, f)
	return nil
}

func (r *fakeFeedbackRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feedback, error) {
	return r.store.feedbacks, nil
}

type fakeArchetypeRepo struct{ store *fakeStore }

func (r *fakeArchetypeRepo) Upsert(ctx context.Context, a *scenario.Archetype) error {
	r.store.archetypes[a.Id] = a
	return nil
}

func (r *fakeArchetypeRepo) FindAll(ctx context.Context) ([]*scenario.Archetype, error) {
	out := make([]*scenario.Archetype, 0, len(r.store.archetypes))
	for _, a := range r.store.archetypes {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeArchetypeRepo) FindById(ctx context.Context, id string) (*scenario.Archetype, error) {
	return r.store.archetypes[id], nil
}

type fakeUnitOfWork struct{ store *fakeStore }

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) SessionRepository() contract.SessionRepository {
	return &fakeSessionRepo{u.store}
}
func (u *fakeUnitOfWork) TurnRepository() contract.TurnRepository {
	return &fakeTurnRepo{u.store}
}
func (u *fakeUnitOfWork) EvaluationRepository() contract.EvaluationRepository {
	return &fakeEvaluationRepo{u.store}
}
func (u *fakeUnitOfWork) KnowledgeDocRepository() contract.KnowledgeDocRepository     { return nil }
func (u *fakeUnitOfWork) KnowledgeChunkRepository() contract.KnowledgeChunkRepository { return nil }
func (u *fakeUnitOfWork) ArchetypeRepository() contract.ArchetypeRepository {
	return &fakeArchetypeRepo{u.store}
}
func (u *fakeUnitOfWork) FeedbackRepository() contract.FeedbackRepository {
	return &fakeFeedbackRepo{u.store}
}

type fakeUowFactory struct{ store *fakeStore }

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{f.store}
}

type capturingPublisher struct{ events []string }

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event.EventType())
	return nil
}

type testSearcher struct{}

func (testSearcher) Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error) {
	return []retrieval.Result{
		{Id: "1", DocTitle: "Регламент", Snippet: "Срок проверки до 15 минут", Score: 4.0},
	}, nil
}

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }
func (testLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}

// --- harness ---

func newTestService(t *testing.T) (ISessionService, *fakeStore, *capturingPublisher) {
	t.Helper()
	store := newFakeStore()
	store.archetypes["fees_dispute"] = &scenario.Archetype{
		Id:              "fees_dispute",
		Title:           "Спор о комиссии",
		SampleQuestions: []string{"Почему списали комиссию?", "А вернуть можно?"},
		Outcomes:        []string{"Клиент понимает правило комиссии"},
	}

	detector := moderation.NewDetector(moderation.DefaultRuleTable())
	factory := &fakeUowFactory{store}
	publisher := &capturingPublisher{}

	svc := NewSessionService(
		factory,
		scenario.NewPlanner(&fakeArchetypeRepo{store}, testSearcher{}, nil, time.Second, testLogger{}),
		scoring.NewEvaluator(detector, testSearcher{}, scoring.DefaultRuleTable(), nil),
		detector,
		dialogue.NewGenerator(&fakeArchetypeRepo{store}, nil, time.Second, nil),
		publisher,
		nil,
		SessionConfig{TrainingSteps: 8, ExamSteps: 10},
		testLogger{},
	)
	return svc, store, publisher
}

const solidAnswer = "Понимаю вас, сейчас разберёмся. Проверю статус карты, уточните, пожалуйста, " +
	"какая сумма не прошла? Возьму под контроль и решим в течение 15 минут."

func startFixtureSession(t *testing.T, svc ISessionService) uuid.UUID {
	t.Helper()
	res, err := svc.Start(context.Background(), &dto.StartSessionRequest{
		TraineeName:       "Тест",
		Mode:              constant.ModeTraining,
		FixtureScenarioId: "card_blocked_call_v1",
	})
	require.NoError(t, err)
	return res.SessionId
}

// --- tests ---

func TestStartWithFixturePlaysScriptedOpener(t *testing.T) {
	svc, store, publisher := newTestService(t)

	res, err := svc.Start(context.Background(), &dto.StartSessionRequest{
		TraineeName:       "Тест",
		Mode:              constant.ModeTraining,
		FixtureScenarioId: "card_blocked_call_v1",
	})
	require.NoError(t, err)

	assert.Equal(t, 9, res.StepsTotal)
	require.NotNil(t, res.FirstClientTurn)
	assert.Contains(t, res.FirstClientTurn.Text, "заблокировали")

	session := store.sessions[res.SessionId]
	require.NotNil(t, session)
	assert.Equal(t, constant.StatusActive, session.Status)
	assert.Equal(t, []string{events.TypeSessionStarted}, publisher.events)
}

func TestStartWithUnknownFixtureFails(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Start(context.Background(), &dto.StartSessionRequest{
		TraineeName:       "Тест",
		FixtureScenarioId: "no_such_script",
	})
	assert.ErrorIs(t, err, ErrScenarioMissing)
}

func TestStartGeneratedPlanUsesArchetype(t *testing.T) {
	svc, store, _ := newTestService(t)

	res, err := svc.Start(context.Background(), &dto.StartSessionRequest{
		TraineeName: "Тест",
		Mode:        constant.ModeExam,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, res.StepsTotal)
	require.NotNil(t, res.Plan)
	assert.Equal(t, "fees_dispute", res.Plan.ArchetypeId)
	assert.NotEmpty(t, res.FirstClientTurn.Text)
	assert.Equal(t, constant.StatusActive, store.sessions[res.SessionId].Status)
}

func TestSubmitAnswerAdvancesDialogue(t *testing.T) {
	svc, store, _ := newTestService(t)
	id := startFixtureSession(t, svc)

	res, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{Answer: solidAnswer})
	require.NoError(t, err)

	assert.False(t, res.Done)
	assert.Equal(t, 1, res.Step)
	require.NotNil(t, res.Evaluation)
	require.NotNil(t, res.ClientTurn)
	assert.Contains(t, res.ClientTurn.Text, "очередь")

	assert.Equal(t, 1, store.sessions[id].CurrentStep)
	assert.Len(t, store.evaluations, 1)
}

func TestEmptyAnswerRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	id := startFixtureSession(t, svc)

	_, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{Answer: "   "})
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestUnknownSessionRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SubmitAnswer(context.Background(), uuid.New(), &dto.SubmitAnswerRequest{Answer: " answer"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCriticalAbuseTerminatesWithZero(t *testing.T) {
	svc, store, publisher := newTestService(t)
	id := startFixtureSession(t, svc)

	res, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{Answer: "да вы идиот, сами разбирайтесь"})
	require.NoError(t, err)

	assert.True(t, res.Done)
	assert.True(t, res.Terminated)
	assert.Equal(t, constant.TerminationAbuse, res.Reason)
	require.NotNil(t, res.TotalScore)
	assert.Equal(t, 0, *res.TotalScore)
	require.NotNil(t, res.Pass)
	assert.False(t, *res.Pass)
	assert.NotEmpty(t, res.Categories)

	session := store.sessions[id]
	assert.Equal(t, constant.StatusTerminatedFail, session.Status)
	assert.NotNil(t, session.FinishedAt)
	assert.Contains(t, publisher.events, events.TypeSessionTerminated)
}

func TestMajorRudenessTerminatesSession(t *testing.T) {
	svc, store, publisher := newTestService(t)
	id := startFixtureSession(t, svc)

	res, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{Answer: "Отвали от меня, сам разбирайся"})
	require.NoError(t, err)

	assert.True(t, res.Done)
	assert.True(t, res.Terminated)
	assert.Equal(t, constant.TerminationAbuse, res.Reason)
	require.NotNil(t, res.TotalScore)
	assert.Equal(t, 0, *res.TotalScore)
	assert.Contains(t, res.Categories, moderation.CategoryRude)

	session := store.sessions[id]
	assert.Equal(t, constant.StatusTerminatedFail, session.Status)
	assert.Contains(t, publisher.events, events.TypeSessionTerminated)
}

func TestDismissiveToneEndsWithThreatLineAndFloor(t *testing.T) {
	svc, store, _ := newTestService(t)
	id := startFixtureSession(t, svc)

	res, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{Answer: "Это ваши проблемы, ждите."})
	require.NoError(t, err)

	assert.True(t, res.Done)
	require.NotNil(t, res.Pass)
	assert.False(t, *res.Pass)
	require.NotNil(t, res.TotalScore)
	assert.GreaterOrEqual(t, *res.TotalScore, 40)

	session := store.sessions[id]
	assert.Equal(t, constant.StatusCompletedFail, session.Status)
	assert.Equal(t, constant.TerminationProfanity, session.TerminationReason)

	lastTurn := store.turns[len(store.turns)-1]
	assert.Equal(t, constant.RoleClient, lastTurn.Role)
	assert.Equal(t, dialogue.ClosingThreatLine, lastTurn.Text)
}

func TestPIIRequestGetsDeflection(t *testing.T) {
	svc, _, _ := newTestService(t)
	id := startFixtureSession(t, svc)

	res, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{
		Answer: "Понимаю, сейчас проверю и решим. Назовите полный номер карты и cvv для проверки.",
	})
	require.NoError(t, err)

	assert.False(t, res.Done)
	require.NotNil(t, res.ClientTurn)
	assert.Equal(t, dialogue.PIIDeflectionReply, res.ClientTurn.Text)
	assert.Contains(t, res.Evaluation.Flags, scoring.FlagPIIDetected)
}

func TestStepExhaustionAveragesEvaluations(t *testing.T) {
	svc, store, publisher := newTestService(t)

	res, err := svc.Start(context.Background(), &dto.StartSessionRequest{
		TraineeName: "Тест",
		Mode:        constant.ModeTraining,
	})
	require.NoError(t, err)
	store.sessions[res.SessionId].StepsTotal = 1

	submit, err := svc.SubmitAnswer(context.Background(), res.SessionId, &dto.SubmitAnswerRequest{
		Answer: "Уточню детали и вернусь к вам позже.",
	})
	require.NoError(t, err)

	assert.True(t, submit.Done)
	require.NotNil(t, submit.Pass)
	require.NotNil(t, submit.TotalScore)

	session := store.sessions[res.SessionId]
	assert.True(t, session.Terminal())
	assert.Contains(t, publisher.events, events.TypeSessionCompleted)
}

func TestStrongAnswersPassOnStepExhaustion(t *testing.T) {
	svc, store, publisher := newTestService(t)

	res, err := svc.Start(context.Background(), &dto.StartSessionRequest{
		TraineeName: "Тест",
		Mode:        constant.ModeTraining,
	})
	require.NoError(t, err)
	store.sessions[res.SessionId].StepsTotal = 3

	answers := []string{
		solidAnswer,
		"Сожалею за ожидание, сейчас проверю движение по счёту. Уточните, пожалуйста, когда вы делали перевод? Зафиксирую обращение, срок ответа до конца дня.",
		"Понимаю, давайте сделаем так: открою обращение и перезвоню вам в течение часа. Подскажу, пожалуйста, какой тариф у вас подключён?",
	}

	var submit *dto.SubmitAnswerResponse
	for _, answer := range answers {
		submit, err = svc.SubmitAnswer(context.Background(), res.SessionId, &dto.SubmitAnswerRequest{Answer: answer})
		require.NoError(t, err)
	}

	assert.True(t, submit.Done)
	require.NotNil(t, submit.Pass)
	assert.True(t, *submit.Pass)
	require.NotNil(t, submit.TotalScore)
	assert.GreaterOrEqual(t, *submit.TotalScore, 70)

	session := store.sessions[res.SessionId]
	assert.Equal(t, constant.StatusCompletedPass, session.Status)
	assert.Equal(t, constant.VerdictPass, session.PassFail)
	assert.Contains(t, publisher.events, events.TypeSessionCompleted)
}

func TestTerminalSessionIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t)
	id := startFixtureSession(t, svc)

	_, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{Answer: "да вы идиот"})
	require.NoError(t, err)

	turnsBefore := len(store.turns)
	res, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{Answer: solidAnswer})
	require.NoError(t, err)

	assert.True(t, res.Done)
	assert.True(t, res.Terminated)
	require.NotNil(t, res.TotalScore)
	assert.Equal(t, 0, *res.TotalScore)
	assert.Len(t, store.turns, turnsBefore)
}

func TestReportAveragesAndMergesEvidence(t *testing.T) {
	svc, _, _ := newTestService(t)
	id := startFixtureSession(t, svc)

	_, err := svc.SubmitAnswer(context.Background(), id, &dto.SubmitAnswerRequest{Answer: solidAnswer})
	require.NoError(t, err)

	report, err := svc.Report(context.Background(), id)
	require.NoError(t, err)

	assert.Len(t, report.Evaluations, 1)
	assert.Greater(t, report.AvgTotal, 0)
	assert.NotEmpty(t, report.Turns)
}

func TestCreateFeedbackRequiresSession(t *testing.T) {
	svc, store, _ := newTestService(t)
	id := startFixtureSession(t, svc)

	_, err := svc.CreateFeedback(context.Background(), uuid.New(), &dto.CreateFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	res, err := svc.CreateFeedback(context.Background(), id, &dto.CreateFeedbackRequest{Rating: 4, Comment: "ok"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.Len(t, store.feedbacks, 1)
}
