package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

// ErrNotReady возвращается после Close
var ErrNotReady = errors.New("хранилище не готово")

// WorldStorage хранит правки блоков по чанкам в BadgerDB.
// Значение: JSON дельты, сжатый zstd.
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
	logger  *logging.Logger
}

// ChunkDelta содержит правки одного чанка
type ChunkDelta struct {
	Coords      vec.Vec2                 `json:"coords"`
	BlockDeltas map[string]block.BlockID `json:"blocks"` // ключ: упакованные координаты "x:y:z"
}

var _ world.EditStore = (*WorldStorage)(nil)

// NewWorldStorage открывает (или создаёт) хранилище в dataPath/world
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	logger := logging.GetStorageLogger()
	logger.Info("Хранилище правок открыто: %s", dbPath)

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
		logger:  logger,
	}, nil
}

// Path возвращает каталог базы
func (ws *WorldStorage) Path() string {
	return ws.dbPath
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	ws.decoder.Close()
	if err := ws.encoder.Close(); err != nil {
		ws.logger.Warn("Ошибка закрытия zstd: %v", err)
	}
	return ws.db.Close()
}

func chunkKey(coords vec.Vec2) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d", coords.X, coords.Y))
}

func blockKey(x, y, z int) string {
	return fmt.Sprintf("%d:%d:%d", x, y, z)
}

func parseBlockKey(key string) (x, y, z int, err error) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("ключ блока %q: ожидалось x:y:z", key)
	}
	var coords [3]int
	for i, p := range parts {
		if coords[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, fmt.Errorf("ключ блока %q: %w", key, err)
		}
	}
	return coords[0], coords[1], coords[2], nil
}

// readDelta читает дельту чанка внутри транзакции; отсутствие ключа: пустая дельта
func (ws *WorldStorage) readDelta(txn *badger.Txn, coords vec.Vec2) (*ChunkDelta, error) {
	delta := &ChunkDelta{Coords: coords, BlockDeltas: make(map[string]block.BlockID)}

	item, err := txn.Get(chunkKey(coords))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return delta, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	err = item.Value(func(val []byte) error {
		raw, err := ws.decoder.DecodeAll(val, nil)
		if err != nil {
			return fmt.Errorf("распаковка дельты: %w", err)
		}
		return json.Unmarshal(raw, delta)
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации дельты чанка %v: %w", coords, err)
	}
	if delta.BlockDeltas == nil {
		delta.BlockDeltas = make(map[string]block.BlockID)
	}
	return delta, nil
}

// LoadChunk загружает дельту чанка
func (ws *WorldStorage) LoadChunk(coords vec.Vec2) (*ChunkDelta, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, ErrNotReady
	}

	var delta *ChunkDelta
	err := ws.db.View(func(txn *badger.Txn) error {
		var err error
		delta, err = ws.readDelta(txn, coords)
		return err
	})
	return delta, err
}

// LoadEdits возвращает правки чанка, упорядоченные по координатам
func (ws *WorldStorage) LoadEdits(coords vec.Vec2) ([]world.BlockEdit, error) {
	delta, err := ws.LoadChunk(coords)
	if err != nil {
		return nil, err
	}

	edits := make([]world.BlockEdit, 0, len(delta.BlockDeltas))
	for key, id := range delta.BlockDeltas {
		x, y, z, err := parseBlockKey(key)
		if err != nil {
			ws.logger.Warn("Чанк %v: пропущена правка: %v", coords, err)
			continue
		}
		if !block.IsValidBlockID(id) {
			ws.logger.Warn("Чанк %v: пропущена правка %s: неизвестный блок %v", coords, key, id)
			continue
		}
		edits = append(edits, world.BlockEdit{X: x, Y: y, Z: z, ID: id})
	}

	sort.Slice(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return edits, nil
}

// SaveEdits дописывает правки к сохранённой дельте чанка.
// Более поздняя правка той же ячейки заменяет раннюю.
func (ws *WorldStorage) SaveEdits(coords vec.Vec2, edits []world.BlockEdit) error {
	if len(edits) == 0 {
		return nil
	}

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return ErrNotReady
	}

	err := ws.db.Update(func(txn *badger.Txn) error {
		delta, err := ws.readDelta(txn, coords)
		if err != nil {
			return err
		}
		for _, e := range edits {
			delta.BlockDeltas[blockKey(e.X, e.Y, e.Z)] = e.ID
		}

		data, err := json.Marshal(delta)
		if err != nil {
			return fmt.Errorf("ошибка сериализации дельты: %w", err)
		}
		return txn.Set(chunkKey(coords), ws.encoder.EncodeAll(data, nil))
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения чанка %v в BadgerDB: %w", coords, err)
	}

	ws.logger.Debug("Чанк %v: сохранено %d правок", coords, len(edits))
	return nil
}

// DeleteChunk удаляет все правки чанка
func (ws *WorldStorage) DeleteChunk(coords vec.Vec2) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return ErrNotReady
	}
	return ws.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(chunkKey(coords))
	})
}

// ChunkCoords перечисляет чанки, для которых есть сохранённые правки
func (ws *WorldStorage) ChunkCoords() ([]vec.Vec2, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, ErrNotReady
	}

	var coords []vec.Vec2
	err := ws.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte("chunk:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var c vec.Vec2
			if _, err := fmt.Sscanf(string(it.Item().Key()), "chunk:%d:%d", &c.X, &c.Y); err != nil {
				ws.logger.Warn("Некорректный ключ %q: %v", it.Item().Key(), err)
				continue
			}
			coords = append(coords, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords, nil
}
