package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"avatar-trainer-be/internal/dto"
	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/mapper"
	"avatar-trainer-be/internal/pkg/logger"
	"avatar-trainer-be/internal/repository/memory"
	"avatar-trainer-be/internal/repository/specification"
	"avatar-trainer-be/internal/repository/unitofwork"
	"avatar-trainer-be/pkg/events"
	"avatar-trainer-be/pkg/retrieval"
)

// IKnowledgeService owns the regulation documents and the lexical index over
// their chunks. Search satisfies the retrieval dependency of both the
// evaluator and the planner.
type IKnowledgeService interface {
	Ingest(ctx context.Context, req *dto.IngestDocRequest) (*dto.IngestDocResponse, error)
	ReindexAll(ctx context.Context) (*dto.ReindexResponse, error)
	ListDocs(ctx context.Context) ([]*dto.KnowledgeDocResponse, error)
	DeleteDoc(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error)
}

// WarmIndexMessage asks the consumer to reload the chunk snapshot.
type WarmIndexMessage struct {
	Reason string `json:"reason"`
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	indexCache       *memory.IndexCache
	publisherService IPublisherService
	eventPublisher   IEventPublisher
	mapper           *mapper.KnowledgeMapper
	logger           logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	indexCache *memory.IndexCache,
	publisherService IPublisherService,
	eventPublisher IEventPublisher,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		indexCache:       indexCache,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		mapper:           mapper.NewKnowledgeMapper(),
		logger:           log,
	}
}

func (s *knowledgeService) Ingest(ctx context.Context, req *dto.IngestDocRequest) (*dto.IngestDocResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc := &entity.KnowledgeDoc{
		Title:   req.Title,
		Content: req.Content,
	}
	if err := uow.KnowledgeDocRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	chunks, err := s.indexDoc(ctx, uow, doc)
	if err != nil {
		return nil, err
	}

	s.indexCache.Invalidate()
	s.requestWarmup(ctx, "ingest")

	if s.eventPublisher != nil {
		evt := events.NewDocumentIngested(doc.Id.String(), doc.Title, chunks)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("KnowledgeService", "failed to publish ingest event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.IngestDocResponse{
		Id:     doc.Id,
		Title:  doc.Title,
		Chunks: chunks,
	}, nil
}

// indexDoc splits a document into chunks and stores them. The splitter packs
// on markdown headers and falls back to the sliding window for oversized
// headerless text.
func (s *knowledgeService) indexDoc(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.KnowledgeDoc) (int, error) {
	pieces := retrieval.SplitSections(doc.Content)

	chunks := make([]*entity.KnowledgeChunk, len(pieces))
	for i, text := range pieces {
		chunks[i] = &entity.KnowledgeChunk{
			DocId:    doc.Id,
			DocTitle: doc.Title,
			Ord:      i,
			Text:     text,
		}
	}
	if err := uow.KnowledgeChunkRepository().CreateBatch(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

func (s *knowledgeService) ReindexAll(ctx context.Context) (*dto.ReindexResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.KnowledgeDocRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, doc := range docs {
		if err := uow.KnowledgeChunkRepository().DeleteByDocId(ctx, doc.Id); err != nil {
			return nil, err
		}
		n, err := s.indexDoc(ctx, uow, doc)
		if err != nil {
			return nil, err
		}
		total += n
	}

	s.indexCache.Invalidate()
	s.requestWarmup(ctx, "reindex")

	return &dto.ReindexResponse{
		Docs:   len(docs),
		Chunks: total,
	}, nil
}

func (s *knowledgeService) ListDocs(ctx context.Context) ([]*dto.KnowledgeDocResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.KnowledgeDocRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.KnowledgeDocResponse, len(docs))
	for i, d := range docs {
		result[i] = &dto.KnowledgeDocResponse{
			Id:        d.Id,
			Title:     d.Title,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}
	}
	return result, nil
}

func (s *knowledgeService) DeleteDoc(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.KnowledgeChunkRepository().DeleteByDocId(ctx, id); err != nil {
		return err
	}
	if err := uow.KnowledgeDocRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.indexCache.Invalidate()
	s.requestWarmup(ctx, "delete")
	return nil
}

func (s *knowledgeService) Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error) {
	chunks, err := s.loadChunks(ctx)
	if err != nil {
		return nil, err
	}
	return retrieval.Rank(query, chunks, topK), nil
}

func (s *knowledgeService) loadChunks(ctx context.Context) ([]retrieval.Chunk, error) {
	if cached, ok := s.indexCache.Get(); ok {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.KnowledgeChunkRepository().FindAll(ctx, specification.OrderBy{Field: "ord", Desc: false})
	if err != nil {
		return nil, err
	}

	chunks := make([]retrieval.Chunk, len(stored))
	for i, c := range stored {
		chunks[i] = s.mapper.ChunkToIndex(c)
	}
	s.indexCache.Save(chunks)
	return chunks, nil
}

func (s *knowledgeService) requestWarmup(ctx context.Context, reason string) {
	if s.publisherService == nil {
		return
	}
	payload, _ := json.Marshal(WarmIndexMessage{Reason: reason})
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("KnowledgeService", "failed to publish index warmup", map[string]interface{}{"error": err.Error()})
	}
}
