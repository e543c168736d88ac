package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStatsCollector exposes pgxpool statistics as Prometheus metrics.
type PoolStatsCollector struct {
	pool *pgxpool.Pool

	acquiredConns *prometheus.Desc
	idleConns     *prometheus.Desc
	totalConns    *prometheus.Desc
	maxConns      *prometheus.Desc
}

// NewPoolStatsCollector creates a collector for the given pool.
func NewPoolStatsCollector(pool *pgxpool.Pool, service string) *PoolStatsCollector {
	labels := prometheus.Labels{"service": service}
	return &PoolStatsCollector{
		pool: pool,
		acquiredConns: prometheus.NewDesc(
			"pgxpool_acquired_conns", "Connections currently acquired from the pool.", nil, labels),
		idleConns: prometheus.NewDesc(
			"pgxpool_idle_conns", "Idle connections in the pool.", nil, labels),
		totalConns: prometheus.NewDesc(
			"pgxpool_total_conns", "Total connections in the pool.", nil, labels),
		maxConns: prometheus.NewDesc(
			"pgxpool_max_conns", "Maximum pool size.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
}

// Collect implements prometheus.Collector.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(stats.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stats.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stats.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stats.MaxConns()))
}
