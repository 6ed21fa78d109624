// Package modelstore persiste artefatos de modelos treinados em disco.
// Cada treinamento gera um arquivo imutável nomeado pelo timestamp; o alias
// "latest" sempre aponta para o último salvamento bem sucedido.
package modelstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

// LatestAlias é o nome reservado que aponta para o artefato mais recente
const LatestAlias = "latest"

const (
	latestFilename = "latest.json"
	artifactPrefix = "model-"
	artifactSuffix = ".json"
)

// Erros do armazenamento de modelos
var (
	ErrModelNotFound = errors.New("artefato de modelo não encontrado")
	ErrModelCorrupt  = errors.New("artefato de modelo corrompido")
)

// Artifact é um artefato carregado: o estado opaco do modelo mais seus metadados
type Artifact struct {
	Name     string
	Model    json.RawMessage
	Metadata domain.ModelMetadata
}

// Store define as operações de persistência de artefatos de modelos
type Store interface {
	// Save grava um novo artefato e atualiza o alias "latest".
	// Retorna o nome do arquivo gravado.
	Save(model json.RawMessage, metadata *domain.ModelMetadata) (string, error)

	// Load carrega um artefato pelo nome do arquivo, ou o mais recente
	// quando o nome é "latest" ou vazio
	Load(name string) (*Artifact, error)

	// List retorna um resumo de todos os artefatos gravados, do mais
	// recente para o mais antigo
	List() ([]domain.ModelSummary, error)
}

// artifactFile é o formato em disco de um artefato
type artifactFile struct {
	Model    json.RawMessage      `json:"model"`
	Metadata domain.ModelMetadata `json:"metadata"`
}

type fileStore struct {
	dir string

	// Serializa os salvamentos para que o alias "latest" nunca fique
	// entre dois artefatos concorrentes
	mu sync.Mutex
}

// New cria um Store baseado em arquivos no diretório informado
func New(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de modelos %s: %w", dir, err)
	}

	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Save(model json.RawMessage, metadata *domain.ModelMetadata) (string, error) {
	if metadata == nil {
		return "", fmt.Errorf("metadados são obrigatórios para salvar um artefato")
	}

	if err := metadata.Validate(); err != nil {
		return "", fmt.Errorf("metadados inválidos: %w", err)
	}

	payload, err := json.MarshalIndent(artifactFile{Model: model, Metadata: *metadata}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("erro ao serializar artefato: %w", err)
	}

	suffix, err := utils.GenerateID()
	if err != nil {
		return "", fmt.Errorf("erro ao gerar identificador do artefato: %w", err)
	}

	name := fmt.Sprintf("%s%s-%s%s",
		artifactPrefix,
		metadata.CreatedAt.UTC().Format("20060102T150405"),
		suffix,
		artifactSuffix,
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Grava o artefato e depois publica o alias; ambos via rename atômico
	if err := s.writeAtomic(name, payload); err != nil {
		return "", fmt.Errorf("erro ao gravar artefato %s: %w", name, err)
	}

	if err := s.writeAtomic(latestFilename, payload); err != nil {
		return "", fmt.Errorf("erro ao atualizar alias latest: %w", err)
	}

	log.L.WithFields(log.Fields{
		"artifact":    name,
		"data_points": metadata.DataPoints,
	}).Info("model-store: artefato salvo com sucesso")

	return name, nil
}

func (s *fileStore) Load(name string) (*Artifact, error) {
	filename := latestFilename
	if name != "" && name != LatestAlias {
		// filepath.Base impede que o nome escape do diretório de modelos
		filename = filepath.Base(name)
		if !strings.HasSuffix(filename, artifactSuffix) {
			filename += artifactSuffix
		}
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, filename)
		}
		return nil, fmt.Errorf("erro ao ler artefato %s: %w", filename, err)
	}

	artifact, err := parseArtifact(filename, data)
	if err != nil {
		return nil, err
	}

	return artifact, nil
}

func (s *fileStore) List() ([]domain.ModelSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar diretório de modelos: %w", err)
	}

	summaries := make([]domain.ModelSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), artifactPrefix) ||
			!strings.HasSuffix(entry.Name(), artifactSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		summary := domain.ModelSummary{
			Filename:  entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			summary.ParseError = err.Error()
			summaries = append(summaries, summary)
			continue
		}

		// Artefatos ilegíveis não derrubam a listagem, apenas marcam o erro
		artifact, err := parseArtifact(entry.Name(), data)
		if err != nil {
			summary.ParseError = err.Error()
		} else {
			metadata := artifact.Metadata
			summary.Metadata = &metadata
			summary.CreatedAt = metadata.CreatedAt
		}

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, nil
}

// parseArtifact decodifica e valida um artefato. Qualquer conteúdo que não
// corresponda ao formato esperado é tratado como corrompido (fail closed).
func parseArtifact(filename string, data []byte) (*Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelCorrupt, filename, err)
	}

	if len(file.Model) == 0 {
		return nil, fmt.Errorf("%w: %s: artefato sem estado de modelo", ErrModelCorrupt, filename)
	}

	if err := file.Metadata.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelCorrupt, filename, err)
	}

	return &Artifact{
		Name:     filename,
		Model:    file.Model,
		Metadata: file.Metadata,
	}, nil
}

func (s *fileStore) writeAtomic(filename string, payload []byte) error {
	target := filepath.Join(s.dir, filename)
	tmp := fmt.Sprintf("%s.tmp-%d", target, time.Now().UnixNano())

	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
