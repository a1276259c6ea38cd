package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/observability"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/redisclient"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BeneficiaryCache is the read-through cache consulted by lookups
type BeneficiaryCache interface {
	// Get reports found=false on a miss.
	Get(ctx context.Context, cpf string) (*models.Beneficiary, bool, error)
	Set(ctx context.Context, b *models.Beneficiary) error
	Invalidate(ctx context.Context, cpf string) error
}

// BeneficiaryCacheService caches lookup results in Redis as JSON
type BeneficiaryCacheService struct {
	redis  *redisclient.Client
	ttl    time.Duration
	logger *logging.SafeLogger
}

var _ BeneficiaryCache = (*BeneficiaryCacheService)(nil)

// NewBeneficiaryCacheService creates a cache whose entries expire after ttl
func NewBeneficiaryCacheService(client *redisclient.Client, ttl time.Duration, logger *logging.SafeLogger) *BeneficiaryCacheService {
	return &BeneficiaryCacheService{
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

// BeneficiaryCacheKey is the Redis key for a CPF
func BeneficiaryCacheKey(cpf string) string {
	return "beneficiary:" + cpf
}

// Get returns the cached record for cpf
func (s *BeneficiaryCacheService) Get(ctx context.Context, cpf string) (*models.Beneficiary, bool, error) {
	key := BeneficiaryCacheKey(cpf)
	ctx, span := utils.TraceCacheGet(ctx, key)
	defer span.End()

	data, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observability.CacheHits.WithLabelValues("miss").Inc()
		utils.AddSpanAttribute(span, "cache.hit", false)
		return nil, false, nil
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		observability.CacheHits.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	var b models.Beneficiary
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		observability.CacheHits.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}

	observability.CacheHits.WithLabelValues("hit").Inc()
	utils.AddSpanAttribute(span, "cache.hit", true)
	return &b, true, nil
}

// Set stores b under its CPF with the configured TTL
func (s *BeneficiaryCacheService) Set(ctx context.Context, b *models.Beneficiary) error {
	key := BeneficiaryCacheKey(b.CPF)
	ctx, span := utils.TraceCacheSet(ctx, key, s.ttl)
	defer span.End()

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the cached record for cpf
func (s *BeneficiaryCacheService) Invalidate(ctx context.Context, cpf string) error {
	key := BeneficiaryCacheKey(cpf)
	ctx, span := utils.TraceCacheInvalidation(ctx, key)
	defer span.End()

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("delete %s: %w", key, err)
	}

	s.logger.Debug("beneficiary cache invalidated", zap.String("cpf", observability.MaskCPF(cpf)))
	return nil
}
