package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/importer"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

type PlacesImportProcessor struct {
	importUseCase importer.UseCase
}

func NewPlacesImportProcessor(importUseCase importer.UseCase) *PlacesImportProcessor {
	return &PlacesImportProcessor{
		importUseCase: importUseCase,
	}
}

// HandleMessage implements the sqs.Handler interface.
// Malformed or invalid batches are acknowledged so they do not loop back into the queue.
func (p *PlacesImportProcessor) HandleMessage(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return fmt.Errorf("received message without body")
	}
	messageID := ""
	if message.MessageId != nil {
		messageID = *message.MessageId
	}

	var batch model.PlacesImportMessage
	if err := json.Unmarshal([]byte(*message.Body), &batch); err != nil {
		log.Error("discarding malformed places import message", zap.String("message_id", messageID), zap.Error(err))
		return nil
	}
	log.Info(msg.GetMessage("importer.received", len(batch.Countries), len(batch.Cities)), zap.String("message_id", messageID))

	_, err := p.importUseCase.ImportPlaces(ctx, batch)
	if errors.Is(err, model.ErrValidation) {
		log.Error("discarding invalid places import message", zap.String("message_id", messageID), zap.Error(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to import places of message %s: %w", messageID, err)
	}
	return nil
}
