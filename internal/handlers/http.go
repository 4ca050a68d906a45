package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"

	"asv-water-quality/internal/analytics"
	"asv-water-quality/internal/cache"
	"asv-water-quality/internal/metrics"
	"asv-water-quality/internal/models"
)

// Store источник наблюдений с фильтрацией по диапазонам на стороне хранилища
type Store interface {
	Find(ctx context.Context, ranges []analytics.FieldRange, skip, limit int) ([]models.Record, error)
	Ping(ctx context.Context) error
}

// ResponseCache кэш сериализованных ответов
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Ping(ctx context.Context) error
}

type poolStater interface {
	GetStats() map[string]interface{}
}

// Options ограничения на работу одного запроса
type Options struct {
	QueryTimeout time.Duration
	ScanLimit    int
}

// Handler обработчик HTTP запросов
type Handler struct {
	analyzer *analytics.Analyzer
	store    Store
	cache    ResponseCache
	opts     Options
}

// NewHandler создает новый обработчик; responseCache может быть nil
func NewHandler(analyzer *analytics.Analyzer, store Store, responseCache ResponseCache, opts Options) *Handler {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 10 * time.Second
	}
	return &Handler{
		analyzer: analyzer,
		store:    store,
		cache:    responseCache,
		opts:     opts,
	}
}

// HealthCheck обрабатывает GET /api/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	mongoOK := h.store.Ping(ctx) == nil
	resp := map[string]interface{}{
		"status":    "ok",
		"mongo":     mongoOK,
		"timestamp": time.Now().UTC(),
	}
	if h.cache != nil {
		resp["cache"] = h.cache.Ping(ctx) == nil
		if s, ok := h.cache.(poolStater); ok {
			resp["cache_pool"] = s.GetStats()
		}
	}

	if !mongoOK {
		resp["status"] = "degraded"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

// GetObservations обрабатывает GET /api/observations
func (h *Handler) GetObservations(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "/api/observations", func(ctx context.Context, q url.Values) (interface{}, error) {
		page := analytics.ClampPage(
			queryInt(q, "limit", analytics.DefaultLimit),
			queryInt(q, "skip", 0),
		)
		window := analytics.ParseWindow(q.Get("start"), q.Get("end"))

		// Фильтр по времени работает после выборки, поэтому при активном окне берем с запасом
		fetch := page.Limit
		if window.Active() {
			fetch *= analytics.OverFetch
		}

		records, err := h.store.Find(ctx, parseRanges(q), page.Skip, fetch)
		if err != nil {
			return nil, err
		}
		metrics.RecordsScanned.WithLabelValues("/api/observations").Observe(float64(len(records)))

		return h.analyzer.Observations(records, window, analytics.Page{Limit: page.Limit}), nil
	})
}

// GetStats обрабатывает GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "/api/stats", func(ctx context.Context, q url.Values) (interface{}, error) {
		window := analytics.ParseWindow(q.Get("start"), q.Get("end"))

		records, err := h.store.Find(ctx, parseRanges(q), 0, h.opts.ScanLimit)
		if err != nil {
			return nil, err
		}
		metrics.RecordsScanned.WithLabelValues("/api/stats").Observe(float64(len(records)))

		return h.analyzer.Stats(records, window), nil
	})
}

// GetOutliers обрабатывает GET /api/outliers
func (h *Handler) GetOutliers(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "/api/outliers", func(ctx context.Context, q url.Values) (interface{}, error) {
		alias := q.Get("field")
		method := q.Get("method")
		if method == "" {
			method = string(analytics.MethodIQR)
		}

		// Валидация до похода в хранилище
		if _, _, err := analytics.ValidateOutlierQuery(alias, method); err != nil {
			return nil, err
		}

		var k *float64
		if v, ok := analytics.ToOptionalFloat(q.Get("k")); ok {
			k = &v
		}
		window := analytics.ParseWindow(q.Get("start"), q.Get("end"))

		records, err := h.store.Find(ctx, parseRanges(q), 0, h.opts.ScanLimit)
		if err != nil {
			return nil, err
		}
		metrics.RecordsScanned.WithLabelValues("/api/outliers").Observe(float64(len(records)))

		result, err := h.analyzer.Outliers(records, window, alias, method, k)
		if err != nil {
			return nil, err
		}
		metrics.OutliersFlagged.WithLabelValues(result.Field, result.Method).Add(float64(result.Count))
		return result, nil
	})
}

type computeFunc func(ctx context.Context, q url.Values) (interface{}, error)

// respond отдает ответ из кэша либо вычисляет, сериализует и кэширует его
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, endpoint string, compute computeFunc) {
	q := r.URL.Query()
	key := cache.ResponseKey(endpoint, q)

	if h.cache != nil {
		payload, ok, err := h.cache.Get(r.Context(), key)
		switch {
		case err != nil:
			metrics.CacheOperations.WithLabelValues("get", "error").Inc()
			slog.Warn("response cache read failed", "key", key, "error", err)
		case ok:
			metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
			writePayload(w, http.StatusOK, "HIT", payload)
			return
		default:
			metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.QueryTimeout)
	defer cancel()

	result, err := compute(ctx, q)
	if err != nil {
		h.writeError(w, r, endpoint, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		h.writeError(w, r, endpoint, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, payload); err != nil {
			metrics.CacheOperations.WithLabelValues("set", "error").Inc()
			slog.Warn("response cache write failed", "key", key, "error", err)
		} else {
			metrics.CacheOperations.WithLabelValues("set", "success").Inc()
		}
	}
	writePayload(w, http.StatusOK, "MISS", payload)
}

func writePayload(w http.ResponseWriter, status int, cacheState string, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheState)
	w.WriteHeader(status)
	w.Write(payload)
}

// writeError: ошибки клиента -> 400, остальное -> 500
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if isClientError(err) {
		status = http.StatusBadRequest
		msg = err.Error()
	} else {
		slog.Error("request failed", "endpoint", endpoint, "query", r.URL.RawQuery, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func isClientError(err error) bool {
	return errors.Is(err, analytics.ErrInvalidField) || errors.Is(err, analytics.ErrInvalidMethod)
}

// parseRanges собирает min_<alias>/max_<alias>; нечисловые значения игнорируются
func parseRanges(q url.Values) []analytics.FieldRange {
	var ranges []analytics.FieldRange
	for _, f := range models.TrackedFields {
		fr := analytics.FieldRange{Field: f}
		if v, ok := analytics.ToOptionalFloat(q.Get("min_" + f.Alias)); ok {
			fr.Min = &v
		}
		if v, ok := analytics.ToOptionalFloat(q.Get("max_" + f.Alias)); ok {
			fr.Max = &v
		}
		if fr.Bounded() {
			ranges = append(ranges, fr)
		}
	}
	return ranges
}

func queryInt(q url.Values, key string, defaultValue int) int {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}
