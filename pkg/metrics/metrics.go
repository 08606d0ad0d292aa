package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
// Пример запроса PromQL: rate(http_requests_total{service="workshop"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты от 1ms до 10s
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"}, // operation: get, set, del
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Product Store Метрики (round trips workshop-service -> store-service)
// =============================================================================

// StoreRequestsTotal - обращения к внешнему хранилищу товаров
// operation: list, insert, update, delete; status: ok, error
var StoreRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "product_store_requests_total",
		Help: "Total number of product store round trips",
	},
	[]string{"service", "operation", "status"},
)

// StoreRequestDuration - время round trip к хранилищу товаров
var StoreRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "product_store_request_duration_seconds",
		Help:    "Duration of product store round trips in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Business Метрики (специфичные для Odil Usta)
// =============================================================================

// --- Workshop Service ---

// CatalogRefreshes - успешные обновления каталога из хранилища
var CatalogRefreshes = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "catalog_refreshes_total",
		Help: "Total number of successful catalog refreshes",
	},
)

// CatalogProducts - текущий размер каталога в памяти
var CatalogProducts = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "Number of products in the in-memory catalog snapshot",
	},
)

// CartItemsAdded - добавления товаров в корзину
var CartItemsAdded = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of add-to-cart operations",
	},
)

// ActiveSessions - текущее количество живых сессий
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Number of active client sessions",
	},
)

// OrdersPlaced - оформленные заказы
var OrdersPlaced = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	},
)

// OrdersAmount - суммарная стоимость оформленных заказов (в so'm)
var OrdersAmount = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "orders_amount_total",
		Help: "Total amount of all placed orders",
	},
)

// --- Store Service ---

// ProductsMutated - мутации таблицы товаров
// operation: create, update, delete
var ProductsMutated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_products_mutated_total",
		Help: "Total number of product mutations in the store",
	},
	[]string{"operation"},
)
