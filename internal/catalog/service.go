package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service provides catalog reads through the cache and writes through the
// repository, invalidating cached entries on every write.
type Service struct {
	repo  Repository
	cache Cache
	log   *zap.Logger
	sfg   singleflight.Group // prevents cache stampede on concurrent misses
}

func NewService(repo Repository, cache Cache, log *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	v, err, _ := s.sfg.Do("list", func() (interface{}, error) {
		products, err := s.cache.GetList(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("catalog cache get failed", zap.Error(err))
		}

		products, err = s.repo.List(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.SetList(context.Background(), products); err != nil {
				s.log.Warn("catalog cache set failed", zap.Error(err))
			}
		}()
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Product), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		p, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("catalog cache get failed", zap.String("id", id), zap.Error(err))
		}

		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return Product{}, err
		}

		go func() {
			if err := s.cache.SetProduct(context.Background(), p); err != nil {
				s.log.Warn("catalog cache set failed", zap.String("id", id), zap.Error(err))
			}
		}()
		return p, nil
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx, created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, p Product) (Product, error) {
	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("catalog cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}
