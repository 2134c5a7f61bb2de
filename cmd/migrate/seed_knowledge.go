package main

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"avatar-trainer-be/internal/model"
	"avatar-trainer-be/pkg/retrieval"
)

const sampleKBTitle = "Sample KB Playbook"

const sampleKBContent = `# Регламент клиентского сервиса

## Комиссии

Комиссия за перевод между банками: 1% (min 50 ₽), списывается сразу.
Если перевод не прошёл, комиссия возвращается автоматически в течение суток.
Внутрибанковские переводы без комиссии.

## Блокировка карты

Карта может уйти в антифрод из-за нетипичной суммы или повторной попытки оплаты.
Разблокировка проводится после идентификации клиента через приложение или проверенный звонок.
Срок проверки антифродом: до 15 минут после подтверждения личности.
Запрещено запрашивать CVV, PIN и коды из СМС. Запрещено обещать немедленную разблокировку без проверки безопасности.

## Переводы

Регламентный срок зачисления межбанковского перевода: до 3 рабочих дней.
При зависшем переводе оформляется обращение с номером, клиент получает уведомление о результате.

## Тон общения

Агент подтверждает проблему, называет конкретные шаги и сроки, не даёт гарантий без проверки.
Паспортные данные и полный номер карты по голосовым каналам не передаются.`

// SeedKnowledge ingests the sample playbook and its chunks. Reruns replace
// the chunks so edits to the content land in the index.
func SeedKnowledge(db *gorm.DB) {
	var doc model.KnowledgeDoc
	err := db.Where("title = ?", sampleKBTitle).First(&doc).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		doc = model.KnowledgeDoc{Title: sampleKBTitle, Content: sampleKBContent}
		if err := db.Create(&doc).Error; err != nil {
			log.Printf("Warn: Failed to seed knowledge doc: %v", err)
			return
		}
	case err != nil:
		log.Printf("Warn: Failed to look up knowledge doc: %v", err)
		return
	default:
		doc.Content = sampleKBContent
		if err := db.Save(&doc).Error; err != nil {
			log.Printf("Warn: Failed to update knowledge doc: %v", err)
			return
		}
		if err := db.Where("doc_id = ?", doc.Id).Delete(&model.KnowledgeChunk{}).Error; err != nil {
			log.Printf("Warn: Failed to clear old chunks: %v", err)
		}
	}

	pieces := retrieval.SplitSections(sampleKBContent)

	chunks := make([]model.KnowledgeChunk, len(pieces))
	for i, text := range pieces {
		chunks[i] = model.KnowledgeChunk{
			DocId:    doc.Id,
			DocTitle: doc.Title,
			Ord:      i,
			Text:     text,
		}
	}
	if err := db.Create(&chunks).Error; err != nil {
		log.Printf("Warn: Failed to seed knowledge chunks: %v", err)
		return
	}
	log.Printf("Seeded knowledge doc %q with %d chunks", sampleKBTitle, len(chunks))
}
