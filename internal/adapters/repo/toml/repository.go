package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName      = "config"
	configType      = "toml"
	itemsPathKey    = "items.path"
	itemsFileMode   = 0o600
	itemsDirMode    = 0o700
	configDir       = ".homewatch"
	itemsFile       = "items.toml"
	tempFilePattern = ".items-*.toml.tmp"
)

type Repository struct {
	itemsPath string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ItemRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDir, itemsFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetDefault(itemsPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	itemsPath := cfg.GetString(itemsPathKey)
	if itemsPath == "" {
		return nil, errors.New("items path is empty")
	}
	itemsPath, err = normalizeItemsPath(itemsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{itemsPath: itemsPath, mu: lockForPath(itemsPath)}, nil
}

func (r *Repository) Save(ctx context.Context, item domain.MonitoredItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(item)
	updated := false
	for i := range file.Items {
		if file.Items[i].ID == encoded.ID {
			file.Items[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Items = append(file.Items, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByID(ctx context.Context, id domain.ItemID) (domain.MonitoredItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.MonitoredItem{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.MonitoredItem{}, err
	}
	file.applyDefaults()

	for _, entry := range file.Items {
		if entry.ID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.MonitoredItem{}, domain.ErrItemNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.MonitoredItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}
	file.applyDefaults()

	items := make([]domain.MonitoredItem, 0, len(file.Items))
	for _, entry := range file.Items {
		items = append(items, fromSchema(entry))
	}

	return items, nil
}

func (r *Repository) Delete(ctx context.Context, id domain.ItemID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	kept := file.Items[:0]
	found := false
	for _, entry := range file.Items {
		if entry.ID == string(id) {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return domain.ErrItemNotFound
	}
	file.Items = kept

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.itemsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read items file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode items file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.itemsPath), itemsDirMode); err != nil {
		return fmt.Errorf("create items directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode items file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.itemsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp items file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp items file: %w", err)
	}

	if err := tempFile.Chmod(itemsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp items file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp items file: %w", err)
	}

	if err := os.Rename(tempName, r.itemsPath); err != nil {
		return fmt.Errorf("replace items file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.itemsPath, itemsFileMode); err != nil {
		return fmt.Errorf("chmod items file: %w", err)
	}

	return nil
}

func normalizeItemsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve items path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(item domain.MonitoredItem) itemSchema {
	return itemSchema{
		ID:             string(item.ID),
		Name:           item.Name,
		Kind:           string(item.Kind),
		Location:       item.Location,
		EntityID:       item.EntityID,
		MonitorID:      item.MonitorID,
		Tags:           item.Tags,
		LastObservedAt: formatOptionalTime(item.LastObservedAt),
		CreatedAt:      formatTime(item.CreatedAt),
		UpdatedAt:      formatTime(item.UpdatedAt),
	}
}

func fromSchema(entry itemSchema) domain.MonitoredItem {
	return domain.MonitoredItem{
		ID:             domain.ItemID(entry.ID),
		Name:           entry.Name,
		Kind:           domain.ItemKind(entry.Kind),
		Location:       entry.Location,
		EntityID:       entry.EntityID,
		MonitorID:      entry.MonitorID,
		Tags:           entry.Tags,
		LastObservedAt: parseOptionalTime(entry.LastObservedAt),
		CreatedAt:      parseTime(entry.CreatedAt),
		UpdatedAt:      parseTime(entry.UpdatedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func parseOptionalTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	parsed := parseTime(raw)
	if parsed.IsZero() {
		return nil
	}

	return &parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return ""
	}

	return formatTime(*value)
}
