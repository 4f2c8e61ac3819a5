package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrDuplicateCategory = errors.New("categoria com este nome já existe")
	ErrCategoryInUse     = errors.New("não é possível excluir categoria que possui produtos")
	ErrInvalidProduct    = errors.New("produto inválido")
)

type CategoryStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, onlyActive bool) ([]models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type ProductStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
}

type ComplementStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Complement, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Complement, error)
	List(ctx context.Context, kind string, onlyActive bool) ([]models.Complement, error)
	Create(ctx context.Context, complement *models.Complement) error
	Update(ctx context.Context, complement *models.Complement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageStorage stores product images. StorageService implements it.
type ImageStorage interface {
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, string, error)
	DeleteFile(ctx context.Context, key string) error
}

// CatalogService manages categories, products and complements
type CatalogService struct {
	categories  CategoryStore
	products    ProductStore
	complements ComplementStore
	storage     ImageStorage
}

// NewCatalogService creates a new catalog service. storage may be nil.
func NewCatalogService(categories CategoryStore, products ProductStore, complements ComplementStore, storage ImageStorage) *CatalogService {
	return &CatalogService{
		categories:  categories,
		products:    products,
		complements: complements,
		storage:     storage,
	}
}

// CreateCategory creates a new category
func (s *CatalogService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueCategory(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ensureUniqueCategory(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.categories.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return ErrDuplicateCategory
	}
	return nil
}

// UpdateCategory updates an existing category
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != category.Name {
		if err := s.ensureUniqueCategory(ctx, name, id); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Image != nil {
		category.Image = *req.Image
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category without products
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.categories.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.categories.Delete(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	return s.categories.List(ctx, onlyActive)
}

// ValidateProduct checks the price rules of a product request
func ValidateProduct(req *models.ProductRequest) error {
	kind := req.Kind
	if kind == "" {
		kind = models.ProductKindStandard
	}

	switch kind {
	case models.ProductKindStandard:
		if req.PriceCents <= 0 {
			return fmt.Errorf("%w: preço deve ser maior que zero", ErrInvalidProduct)
		}
	case models.ProductKindValueBased:
		if req.MinValueCents <= 0 {
			return fmt.Errorf("%w: valor mínimo deve ser maior que zero", ErrInvalidProduct)
		}
		if req.MaxValueCents > 0 && req.MaxValueCents < req.MinValueCents {
			return fmt.Errorf("%w: valor máximo menor que o mínimo", ErrInvalidProduct)
		}
	default:
		return fmt.Errorf("%w: tipo %q desconhecido", ErrInvalidProduct, kind)
	}
	return nil
}

func (s *CatalogService) applyProduct(ctx context.Context, product *models.Product, req *models.ProductRequest) error {
	if err := ValidateProduct(req); err != nil {
		return err
	}
	if req.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *req.CategoryID); err != nil {
			return err
		}
	}

	product.CategoryID = req.CategoryID
	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Kind = req.Kind
	if product.Kind == "" {
		product.Kind = models.ProductKindStandard
	}
	product.PriceCents = req.PriceCents
	product.MinValueCents = req.MinValueCents
	product.MaxValueCents = req.MaxValueCents
	product.MaxFlavors = req.MaxFlavors
	product.FreeComplements = req.FreeComplements
	product.SortOrder = req.SortOrder
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	return nil
}

// CreateProduct creates a new product
func (s *CatalogService) CreateProduct(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	product := &models.Product{IsActive: true}
	if err := s.applyProduct(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct replaces the editable fields of a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.ProductRequest) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProduct(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product and its image
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(ctx, product.ImageKey)
	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return s.products.List(ctx, filter)
}

// SetProductImage uploads a new image and replaces the previous one
func (s *CatalogService) SetProductImage(ctx context.Context, id uuid.UUID, fileHeader *multipart.FileHeader) (*models.Product, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, key, err := s.storage.UploadImage(ctx, fileHeader, "products")
	if err != nil {
		return nil, err
	}

	previous := product.ImageKey
	product.ImageURL = url
	product.ImageKey = key
	if err := s.products.Update(ctx, product); err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}

	s.removeImage(ctx, previous)
	return product, nil
}

func (s *CatalogService) removeImage(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Falha ao remover imagem do produto")
	}
}

// CreateComplement creates a flavor or an add-on
func (s *CatalogService) CreateComplement(ctx context.Context, req *models.ComplementRequest) (*models.Complement, error) {
	complement := &models.Complement{
		Name:       strings.TrimSpace(req.Name),
		Kind:       req.Kind,
		PriceCents: req.PriceCents,
		IsActive:   true,
		SortOrder:  req.SortOrder,
	}
	if req.IsActive != nil {
		complement.IsActive = *req.IsActive
	}
	if err := s.complements.Create(ctx, complement); err != nil {
		return nil, err
	}
	return complement, nil
}

func (s *CatalogService) UpdateComplement(ctx context.Context, id uuid.UUID, req *models.ComplementRequest) (*models.Complement, error) {
	complement, err := s.complements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	complement.Name = strings.TrimSpace(req.Name)
	complement.Kind = req.Kind
	complement.PriceCents = req.PriceCents
	complement.SortOrder = req.SortOrder
	if req.IsActive != nil {
		complement.IsActive = *req.IsActive
	}

	if err := s.complements.Update(ctx, complement); err != nil {
		return nil, err
	}
	return complement, nil
}

func (s *CatalogService) DeleteComplement(ctx context.Context, id uuid.UUID) error {
	if _, err := s.complements.GetByID(ctx, id); err != nil {
		return err
	}
	return s.complements.Delete(ctx, id)
}

func (s *CatalogService) ListComplements(ctx context.Context, kind string, onlyActive bool) ([]models.Complement, error) {
	return s.complements.List(ctx, kind, onlyActive)
}
