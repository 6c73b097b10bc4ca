package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
)

type countingRunner struct{ runs int }

func (r *countingRunner) Run(context.Context) (model.SettlementResult, error) {
	r.runs++
	return model.SettlementResult{}, nil
}

// TestSettlementScheduler tests that the sweep is scheduled at market time.
func TestSettlementScheduler(t *testing.T) {
	runner := &countingRunner{}
	s, err := service.NewSettlementScheduler(runner, config.SchedulerConfig{Enabled: true, Hour: 9, Minute: 5}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	next := s.Next().In(model.MarketLocation)
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 5, next.Minute())
	assert.True(t, next.After(time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, 0, runner.runs)
}
