package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF assembles a one-page PDF containing the given text, with a
// correct xref table so the extractor can parse it.
func minimalPDF(text string) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 6)

	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>")
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	writeObj(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefPos := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefPos)

	return buf.Bytes()
}

func TestIngestUploadRules(t *testing.T) {
	uow := newFakeUow()
	dir := t.TempDir()
	svc := NewIngestService(&fakeFactory{uow: uow}, &fakeEmbeddingProvider{}, nil, dir, "test-model", nopLogger{})
	game := seedGame(uow, "Catan")

	res, err := svc.UploadRules(context.Background(), game.Id, minimalPDF("The robber blocks resource production."))
	require.NoError(t, err)
	assert.Positive(t, res.ChunksProcessed)
	assert.Positive(t, res.TextLength)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stored, _ := uow.gameRepo.FindOne(context.Background(), byIDSpec(game.Id))
	require.NotNil(t, stored.RulesPdfPath)
	require.NotNil(t, stored.RulesProcessedAt)

	for _, chunk := range uow.embeddingRepo.chunks {
		assert.Equal(t, entity.SourceTypeRulesPdf, chunk.SourceType)
		assert.Equal(t, game.Id, chunk.GameId)
	}
}

func TestIngestUploadRulesGameNotFound(t *testing.T) {
	svc := NewIngestService(&fakeFactory{uow: newFakeUow()}, &fakeEmbeddingProvider{}, nil, t.TempDir(), "test-model", nopLogger{})

	_, err := svc.UploadRules(context.Background(), uuid.New(), minimalPDF("text"))
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestIngestUploadRulesRejectsNonPdf(t *testing.T) {
	uow := newFakeUow()
	svc := NewIngestService(&fakeFactory{uow: uow}, &fakeEmbeddingProvider{}, nil, t.TempDir(), "test-model", nopLogger{})
	game := seedGame(uow, "Catan")

	_, err := svc.UploadRules(context.Background(), game.Id, []byte("<html>not a pdf</html>"))
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestIngestUploadRulesRemovesFileOnTxFailure(t *testing.T) {
	uow := newFakeUow()
	uow.embeddingRepo.bulkErr = errUpstreamDown
	dir := t.TempDir()
	svc := NewIngestService(&fakeFactory{uow: uow}, &fakeEmbeddingProvider{}, nil, dir, "test-model", nopLogger{})
	game := seedGame(uow, "Catan")

	_, err := svc.UploadRules(context.Background(), game.Id, minimalPDF("The robber blocks resource production."))
	require.Error(t, err)

	// The file written ahead of the failed transaction must not linger.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	stored, _ := uow.gameRepo.FindOne(context.Background(), byIDSpec(game.Id))
	assert.Nil(t, stored.RulesPdfPath)
}

func TestIngestUploadRulesEmbeddingFailureWritesNothing(t *testing.T) {
	uow := newFakeUow()
	dir := t.TempDir()
	svc := NewIngestService(&fakeFactory{uow: uow}, &fakeEmbeddingProvider{err: errUpstreamDown}, nil, dir, "test-model", nopLogger{})
	game := seedGame(uow, "Catan")

	_, err := svc.UploadRules(context.Background(), game.Id, minimalPDF("The robber blocks resource production."))
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindUpstream, appErr.Kind)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, uow.embeddingRepo.chunks)
}
