package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestHealthService_CheckHealth(t *testing.T) {
	tests := []struct {
		name        string
		critical    map[string]healthCheck
		nonCritical map[string]healthCheck
		want        string
	}{
		{
			name:        "all healthy",
			critical:    map[string]healthCheck{"postgresql": ok, "redis": ok},
			nonCritical: map[string]healthCheck{"neo4j": ok, "kafka": ok},
			want:        "healthy",
		},
		{
			name:        "non-critical down",
			critical:    map[string]healthCheck{"postgresql": ok, "redis": ok},
			nonCritical: map[string]healthCheck{"neo4j": down, "kafka": ok},
			want:        "degraded",
		},
		{
			name:        "critical down",
			critical:    map[string]healthCheck{"postgresql": down, "redis": ok},
			nonCritical: map[string]healthCheck{"neo4j": ok, "kafka": down},
			want:        "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := newHealthService(testLogger(), tt.critical, tt.nonCritical)
			status := hs.CheckHealth(context.Background())

			assert.Equal(t, tt.want, status.Status)
			assert.Len(t, status.Services, 4)
		})
	}
}

func TestHealthService_ReportsFailures(t *testing.T) {
	hs := newHealthService(testLogger(),
		map[string]healthCheck{"postgresql": down},
		map[string]healthCheck{"neo4j": down},
	)
	status := hs.CheckHealth(context.Background())

	assert.Equal(t, []string{"postgresql"}, status.Critical)
	assert.Equal(t, []string{"neo4j"}, status.NonCritical)
	assert.Equal(t, "unhealthy", status.Services["postgresql"])
}

func TestCheckKafka_NoBrokers(t *testing.T) {
	assert.Error(t, checkKafka(context.Background(), nil))
}
