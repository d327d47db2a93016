// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/abhi7515/shopdev/internal/apperrors"
	"github.com/abhi7515/shopdev/internal/models"
)

const searchResultLimit = 50

// ProductSource is the catalog source adapter contract. The storefront
// client implements it; tests substitute fakes.
type ProductSource interface {
	FetchAllProducts(ctx context.Context) ([]models.Product, error)
}

type CatalogService struct {
	db     *gorm.DB
	maxAge time.Duration
	now    func() time.Time
}

type SyncResult struct {
	TotalSynced int  `json:"total_synced"`
	Removed     int  `json:"removed"`
	Skipped     bool `json:"skipped,omitempty"`
}

func NewCatalogService(db *gorm.DB, maxAgeHours int) *CatalogService {
	if maxAgeHours <= 0 {
		maxAgeHours = 24
	}
	return &CatalogService{
		db:     db,
		maxAge: time.Duration(maxAgeHours) * time.Hour,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *CatalogService) WithClock(now func() time.Time) *CatalogService {
	s.now = now
	return s
}

// Upsert inserts or replaces a cached product keyed by (shop, id) and stamps
// last_synced. Child variants and images are replaced wholesale.
func (s *CatalogService) Upsert(ctx context.Context, shop string, product models.Product) error {
	if product.ID == "" {
		return apperrors.Validation("product id is required")
	}

	product.Shop = shop
	product.LastSynced = s.now()
	product.SearchText = buildSearchText(product)
	product.TagsText = strings.ToLower(strings.Join(product.Tags, ","))

	for i := range product.Variants {
		product.Variants[i].Shop = shop
		product.Variants[i].ProductID = product.ID
	}
	for i := range product.Images {
		product.Images[i].Shop = shop
		product.Images[i].ProductID = product.ID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop = ? AND product_id = ?", shop, product.ID).Delete(&models.Variant{}).Error; err != nil {
			return fmt.Errorf("failed to clear variants: %w", err)
		}
		if err := tx.Where("shop = ? AND product_id = ?", shop, product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to clear images: %w", err)
		}
		if err := tx.Where("shop = ? AND id = ?", shop, product.ID).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to clear product: %w", err)
		}
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
}

// SyncAll pulls the whole catalog through the source adapter and upserts it
// item by item. A single failing item is logged and skipped, never fatal for
// the batch. After a successful fetch, cached rows that disappeared upstream
// are removed.
func (s *CatalogService) SyncAll(ctx context.Context, shop string, source ProductSource) (*SyncResult, error) {
	products, err := source.FetchAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"shop":    shop,
		"fetched": len(products),
	}).Info("Catalog sync started")

	fetchedIDs := make([]string, 0, len(products))
	synced := 0
	for _, product := range products {
		if product.ID != "" {
			fetchedIDs = append(fetchedIDs, product.ID)
		}
		if err := s.Upsert(ctx, shop, product); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"shop":    shop,
				"product": product.ID,
			}).Warn("Skipping product that failed to upsert")
			continue
		}
		synced++
	}

	removed, err := s.removeMissing(ctx, shop, fetchedIDs)
	if err != nil {
		logrus.WithError(err).WithField("shop", shop).Warn("Failed to remove stale products")
	}

	logrus.WithFields(logrus.Fields{
		"shop":    shop,
		"synced":  synced,
		"removed": removed,
	}).Info("Catalog sync finished")

	return &SyncResult{TotalSynced: synced, Removed: removed}, nil
}

// removeMissing deletes cached products absent from the fetched id set. It
// only runs after a fully successful fetch, so a mid-flight upstream failure
// never drops valid cache rows.
func (s *CatalogService) removeMissing(ctx context.Context, shop string, fetchedIDs []string) (int, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).Where("shop = ?", shop)
	if len(fetchedIDs) > 0 {
		query = query.Where("id NOT IN ?", fetchedIDs)
	}

	var staleIDs []string
	if err := query.Pluck("id", &staleIDs).Error; err != nil {
		return 0, err
	}
	if len(staleIDs) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop = ? AND product_id IN ?", shop, staleIDs).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop = ? AND product_id IN ?", shop, staleIDs).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Where("shop = ? AND id IN ?", shop, staleIDs).Delete(&models.Product{}).Error
	})
	if err != nil {
		return 0, err
	}

	return len(staleIDs), nil
}

// NeedsSync reports whether the shop has no cached products or the newest
// one is older than the staleness threshold.
func (s *CatalogService) NeedsSync(ctx context.Context, shop string) (bool, error) {
	var latest models.Product
	err := s.db.WithContext(ctx).
		Where("shop = ?", shop).
		Order("last_synced DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check sync state: %w", err)
	}

	return s.now().Sub(latest.LastSynced) > s.maxAge, nil
}

// ScheduledSync runs SyncAll only when the cache is stale.
func (s *CatalogService) ScheduledSync(ctx context.Context, shop string, source ProductSource) (*SyncResult, error) {
	needed, err := s.NeedsSync(ctx, shop)
	if err != nil {
		return nil, err
	}
	if !needed {
		logrus.WithField("shop", shop).Debug("Sync not needed, last sync was recent")
		return &SyncResult{Skipped: true}, nil
	}
	return s.SyncAll(ctx, shop, source)
}

// List returns cached products, most recently synced first.
func (s *CatalogService) List(ctx context.Context, shop string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 100
	}

	var products []models.Product
	err := s.preloaded(ctx).
		Where("shop = ?", shop).
		Order("last_synced DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Search does a case-insensitive substring match over title, description,
// tags, vendor and product type, capped at 50 results, title ascending.
func (s *CatalogService) Search(ctx context.Context, shop, query string) ([]models.Product, error) {
	term := "%" + strings.ToLower(query) + "%"

	var products []models.Product
	err := s.preloaded(ctx).
		Where("shop = ? AND search_text LIKE ?", shop, term).
		Order("title ASC").
		Limit(searchResultLimit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Recommend returns up to limit products sharing the source's product type
// or its first tag, excluding the source itself. A heuristic, not a ranked
// similarity score.
func (s *CatalogService) Recommend(ctx context.Context, shop, productID string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 5
	}

	source, err := s.GetProduct(ctx, shop, productID)
	if err != nil {
		return nil, err
	}

	query := s.preloaded(ctx).Where("shop = ? AND id <> ?", shop, productID)
	if len(source.Tags) > 0 && source.Tags[0] != "" {
		query = query.Where("product_type = ? OR tags_text LIKE ?",
			source.ProductType, "%"+strings.ToLower(source.Tags[0])+"%")
	} else {
		query = query.Where("product_type = ?", source.ProductType)
	}

	var products []models.Product
	if err := query.Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}
	return products, nil
}

// GetProduct returns one cached product with its variants and images.
func (s *CatalogService) GetProduct(ctx context.Context, shop, id string) (*models.Product, error) {
	var product models.Product
	err := s.preloaded(ctx).
		Where("shop = ? AND id = ?", shop, id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return &product, nil
}

// GetVariant resolves a variant within the shop's catalog.
func (s *CatalogService) GetVariant(ctx context.Context, shop, variantID string) (*models.Variant, error) {
	var variant models.Variant
	err := s.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, variantID).
		First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("variant")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch variant: %w", err)
	}
	return &variant, nil
}

func (s *CatalogService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

func buildSearchText(p models.Product) string {
	parts := []string{p.Title, p.Description, p.Vendor, p.ProductType}
	parts = append(parts, p.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
