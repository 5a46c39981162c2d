package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voxel"

// Метрики ядра. Регистрируются в глобальном регистре Prometheus при импорте.
var (
	ChunksGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "world",
		Name:      "chunks_generated_total",
		Help:      "Число сгенерированных чанков.",
	})
	ChunksLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "world",
		Name:      "chunks_loaded",
		Help:      "Чанки, присутствующие в индексе мира.",
	})
	GenerateSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "world",
		Name:      "chunk_generate_seconds",
		Help:      "Время генерации рельефа одного чанка.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	MeshSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mesh",
		Name:      "build_seconds",
		Help:      "Время построения меша одного чанка.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	FacesEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mesh",
		Name:      "faces_emitted_total",
		Help:      "Суммарное число видимых граней во всех построенных мешах.",
	})
	BlockEdits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "world",
		Name:      "block_edits_total",
		Help:      "Число применённых правок блоков.",
	})
	PhysicsTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "physics",
		Name:      "ticks_total",
		Help:      "Число шагов физики.",
	})
	Landings = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "physics",
		Name:      "landings_total",
		Help:      "Переходы из полёта в состояние на земле.",
	})
	BlockedMoves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "physics",
		Name:      "blocked_moves_total",
		Help:      "Перемещения, отменённые столкновением, по осям.",
	}, []string{"axis"})
)

func init() {
	prometheus.MustRegister(
		ChunksGenerated,
		ChunksLoaded,
		GenerateSeconds,
		MeshSeconds,
		FacesEmitted,
		BlockEdits,
		PhysicsTicks,
		Landings,
		BlockedMoves,
	)
}

// ObserveSince записывает в гистограмму время, прошедшее с start
func ObserveSince(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

var processCollectorOnce sync.Once

// Server отдаёт /metrics по HTTP
type Server struct {
	srv  *http.Server
	addr string
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Порт занимается синхронно, ошибка привязки возвращается сразу;
// обслуживание запросов идёт в отдельной горутине.
func StartHTTP(addr string) (*Server, error) {
	processCollectorOnce.Do(func() {
		prometheus.MustRegister(NewProcessCollector())
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("метрики: не удалось занять %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s := &Server{srv: &http.Server{Addr: addr, Handler: mux}, addr: ln.Addr().String()}

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", s.addr)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return s, nil
}

// Addr возвращает фактический адрес прослушивания
func (s *Server) Addr() string {
	return s.addr
}

// Close останавливает HTTP-сервер
func (s *Server) Close() error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.Close()
}
