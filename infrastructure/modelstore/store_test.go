package modelstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
)

func init() {
	log.SetupTestLogger()
}

func validMetadata() *domain.ModelMetadata {
	return &domain.ModelMetadata{
		DataPoints: 18,
		MinSales:   100,
		MaxSales:   900,
		Range:      800,
		TrainingParams: domain.TrainingParams{
			Iterations:       20000,
			ErrorThreshold:   0.005,
			LearningRate:     0.05,
			FinalError:       0.004,
			ActualIterations: 12400,
		},
		LastSalesDate: domain.SalesDate{Year: 2024, Month: 6},
		CreatedAt:     time.Now().UTC(),
		ModelType:     domain.ModelTypeElman,
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	t.Run("Salva o artefato e o alias latest aponta para ele", func(t *testing.T) {
		store, err := New(t.TempDir())
		assert.NoError(t, err)

		model := json.RawMessage(`{"hidden_size":4}`)
		name, err := store.Save(model, validMetadata())

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(name, "model-"))
		assert.True(t, strings.HasSuffix(name, ".json"))

		byName, err := store.Load(name)
		assert.NoError(t, err)
		assert.JSONEq(t, string(model), string(byName.Model))

		latest, err := store.Load(LatestAlias)
		assert.NoError(t, err)
		assert.Equal(t, byName.Metadata, latest.Metadata)

		// Nome vazio também resolve para o mais recente
		empty, err := store.Load("")
		assert.NoError(t, err)
		assert.Equal(t, byName.Metadata, empty.Metadata)
	})

	t.Run("Salvamentos sucessivos atualizam o latest", func(t *testing.T) {
		store, err := New(t.TempDir())
		assert.NoError(t, err)

		first := validMetadata()
		_, err = store.Save(json.RawMessage(`{"v":1}`), first)
		assert.NoError(t, err)

		second := validMetadata()
		second.LastSalesDate = domain.SalesDate{Year: 2024, Month: 7}
		second.CreatedAt = first.CreatedAt.Add(time.Second)
		_, err = store.Save(json.RawMessage(`{"v":2}`), second)
		assert.NoError(t, err)

		latest, err := store.Load(LatestAlias)
		assert.NoError(t, err)
		assert.Equal(t, domain.SalesDate{Year: 2024, Month: 7}, latest.Metadata.LastSalesDate)
	})

	t.Run("Metadados inválidos não são persistidos", func(t *testing.T) {
		store, err := New(t.TempDir())
		assert.NoError(t, err)

		metadata := validMetadata()
		metadata.Range = 0

		_, err = store.Save(json.RawMessage(`{}`), metadata)
		assert.Error(t, err)

		_, err = store.Save(json.RawMessage(`{}`), nil)
		assert.Error(t, err)
	})

	t.Run("Artefato inexistente retorna ErrModelNotFound", func(t *testing.T) {
		store, err := New(t.TempDir())
		assert.NoError(t, err)

		_, err = store.Load("model-20240101T000000-nada.json")
		assert.ErrorIs(t, err, ErrModelNotFound)

		_, err = store.Load(LatestAlias)
		assert.ErrorIs(t, err, ErrModelNotFound)
	})

	t.Run("Artefato ilegível retorna ErrModelCorrupt", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		assert.NoError(t, err)

		name := "model-20240101T000000-ruim.json"
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{ nada"), 0o644))

		_, err = store.Load(name)
		assert.ErrorIs(t, err, ErrModelCorrupt)
	})

	t.Run("Artefato sem estado de modelo é corrompido", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		assert.NoError(t, err)

		payload, err := json.Marshal(artifactFile{Metadata: *validMetadata()})
		assert.NoError(t, err)

		name := "model-20240101T000000-vazio.json"
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), payload, 0o644))

		_, err = store.Load(name)
		assert.ErrorIs(t, err, ErrModelCorrupt)
	})

	t.Run("Nome com caminho não escapa do diretório de modelos", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		assert.NoError(t, err)

		name, err := store.Save(json.RawMessage(`{"v":1}`), validMetadata())
		assert.NoError(t, err)

		loaded, err := store.Load("../../" + name)
		assert.NoError(t, err)
		assert.Equal(t, name, loaded.Name)
	})
}

func TestFileStore_List(t *testing.T) {
	t.Run("Lista do mais recente para o mais antigo, marcando ilegíveis", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		assert.NoError(t, err)

		older := validMetadata()
		older.CreatedAt = time.Now().UTC().Add(-time.Hour)
		olderName, err := store.Save(json.RawMessage(`{"v":1}`), older)
		assert.NoError(t, err)

		newer := validMetadata()
		newerName, err := store.Save(json.RawMessage(`{"v":2}`), newer)
		assert.NoError(t, err)

		// Artefato quebrado no meio do diretório
		broken := "model-20240101T000000-ruim.json"
		assert.NoError(t, os.WriteFile(filepath.Join(dir, broken), []byte("lixo"), 0o644))

		summaries, err := store.List()
		assert.NoError(t, err)
		assert.Len(t, summaries, 3)

		assert.Equal(t, newerName, summaries[0].Filename)
		assert.NotNil(t, summaries[0].Metadata)

		byName := map[string]domain.ModelSummary{}
		for _, s := range summaries {
			byName[s.Filename] = s
		}
		assert.NotNil(t, byName[olderName].Metadata)
		assert.NotEmpty(t, byName[broken].ParseError)
		assert.Nil(t, byName[broken].Metadata)
	})

	t.Run("O alias latest não aparece na listagem", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		assert.NoError(t, err)

		_, err = store.Save(json.RawMessage(`{"v":1}`), validMetadata())
		assert.NoError(t, err)

		summaries, err := store.List()
		assert.NoError(t, err)
		assert.Len(t, summaries, 1)
		assert.NotEqual(t, latestFilename, summaries[0].Filename)
	})

	t.Run("Diretório vazio lista zero artefatos", func(t *testing.T) {
		store, err := New(t.TempDir())
		assert.NoError(t, err)

		summaries, err := store.List()
		assert.NoError(t, err)
		assert.Empty(t, summaries)
	})
}
