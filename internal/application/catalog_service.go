package application

import (
	"context"
	"fmt"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/api"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
)

// CatalogService handles administration of the entity catalog: workers,
// zones, bin locations, items and orders.
type CatalogService struct {
	workers   domain.WorkerRepository
	zones     domain.ZoneRepository
	locations domain.LocationRepository
	items     domain.ItemRepository
	orders    domain.OrderRepository
	logger    *logging.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	workers domain.WorkerRepository,
	zones domain.ZoneRepository,
	locations domain.LocationRepository,
	items domain.ItemRepository,
	orders domain.OrderRepository,
	logger *logging.Logger,
) *CatalogService {
	return &CatalogService{
		workers:   workers,
		zones:     zones,
		locations: locations,
		items:     items,
		orders:    orders,
		logger:    logger,
	}
}

func normalizePage(p api.PageRequest) api.PageRequest {
	if p.Page < 1 || p.PageSize < 1 {
		return api.DefaultPageRequest()
	}
	return p
}

// CreateWorker creates a new worker. The employee code must be unique.
func (s *CatalogService) CreateWorker(ctx context.Context, cmd CreateWorkerCommand) (*WorkerDTO, error) {
	shift, err := domain.NewShift(cmd.Shift)
	if err != nil {
		return nil, err
	}

	existing, err := s.workers.FindByEmployeeCode(ctx, cmd.EmployeeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee code: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("worker with this employee code already exists").
			WithDetail("employeeCode", cmd.EmployeeCode)
	}

	worker, err := domain.NewWorker(cmd.Name, cmd.EmployeeCode, shift, cmd.HourlyRate, cmd.HireDate)
	if err != nil {
		return nil, err
	}

	if err := s.workers.Save(ctx, worker); err != nil {
		s.logger.WithError(err).Error("Failed to save worker", "employeeCode", cmd.EmployeeCode)
		return nil, fmt.Errorf("failed to save worker: %w", err)
	}

	s.logger.Info("Created worker", "workerId", worker.ID, "employeeCode", worker.EmployeeCode)
	return ToWorkerDTO(worker), nil
}

// GetWorker retrieves a worker by ID
func (s *CatalogService) GetWorker(ctx context.Context, workerID string) (*WorkerDTO, error) {
	worker, err := s.workers.FindByID(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	if worker == nil {
		return nil, errors.ErrNotFoundWithID("worker", workerID)
	}
	return ToWorkerDTO(worker), nil
}

// ListWorkers retrieves one page of workers
func (s *CatalogService) ListWorkers(ctx context.Context, query ListQuery) (*api.PageResponse[WorkerDTO], error) {
	page := normalizePage(query.Pagination)

	workers, total, err := s.workers.FindAll(ctx, page.GetLimit(), page.GetOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	resp := api.NewPageResponse(ToWorkerDTOs(workers), page.Page, page.PageSize, total)
	return &resp, nil
}

// SetWorkerRate updates a worker's hourly rate
func (s *CatalogService) SetWorkerRate(ctx context.Context, cmd SetWorkerRateCommand) (*WorkerDTO, error) {
	worker, err := s.workers.FindByID(ctx, cmd.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	if worker == nil {
		return nil, errors.ErrNotFoundWithID("worker", cmd.WorkerID)
	}

	if err := worker.SetHourlyRate(cmd.HourlyRate); err != nil {
		return nil, err
	}

	if err := s.workers.Update(ctx, worker); err != nil {
		s.logger.WithError(err).Error("Failed to update worker", "workerId", cmd.WorkerID)
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}

	s.logger.Info("Updated worker rate", "workerId", cmd.WorkerID, "hourlyRate", cmd.HourlyRate)
	return ToWorkerDTO(worker), nil
}

// DeactivateWorker marks a worker as inactive. Historical pick events
// remain attributed to the worker.
func (s *CatalogService) DeactivateWorker(ctx context.Context, cmd DeactivateWorkerCommand) (*WorkerDTO, error) {
	worker, err := s.workers.FindByID(ctx, cmd.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	if worker == nil {
		return nil, errors.ErrNotFoundWithID("worker", cmd.WorkerID)
	}

	worker.Deactivate()

	if err := s.workers.Update(ctx, worker); err != nil {
		s.logger.WithError(err).Error("Failed to update worker", "workerId", cmd.WorkerID)
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}

	s.logger.Info("Deactivated worker", "workerId", cmd.WorkerID)
	return ToWorkerDTO(worker), nil
}

// CreateZone creates a new zone. The zone code must be unique.
func (s *CatalogService) CreateZone(ctx context.Context, cmd CreateZoneCommand) (*ZoneDTO, error) {
	zoneType, err := domain.NewZoneType(cmd.Type)
	if err != nil {
		return nil, err
	}

	existing, err := s.zones.FindByCode(ctx, cmd.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check zone code: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("zone with this code already exists").
			WithDetail("code", cmd.Code)
	}

	zone, err := domain.NewZone(cmd.Code, cmd.Name, zoneType)
	if err != nil {
		return nil, err
	}

	if err := s.zones.Save(ctx, zone); err != nil {
		s.logger.WithError(err).Error("Failed to save zone", "code", cmd.Code)
		return nil, fmt.Errorf("failed to save zone: %w", err)
	}

	s.logger.Info("Created zone", "zoneId", zone.ID, "code", zone.Code)
	return ToZoneDTO(zone), nil
}

// GetZone retrieves a zone by ID
func (s *CatalogService) GetZone(ctx context.Context, zoneID string) (*ZoneDTO, error) {
	zone, err := s.zones.FindByID(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	if zone == nil {
		return nil, errors.ErrNotFoundWithID("zone", zoneID)
	}
	return ToZoneDTO(zone), nil
}

// ListZones retrieves one page of zones
func (s *CatalogService) ListZones(ctx context.Context, query ListQuery) (*api.PageResponse[ZoneDTO], error) {
	page := normalizePage(query.Pagination)

	zones, total, err := s.zones.FindAll(ctx, page.GetLimit(), page.GetOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	resp := api.NewPageResponse(ToZoneDTOs(zones), page.Page, page.PageSize, total)
	return &resp, nil
}

// CreateLocation creates a new bin location. The location code must be
// unique and the referenced zone must exist.
func (s *CatalogService) CreateLocation(ctx context.Context, cmd CreateLocationCommand) (*LocationDTO, error) {
	zone, err := s.zones.FindByID(ctx, cmd.ZoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to check zone: %w", err)
	}
	if zone == nil {
		return nil, errors.ErrValidationField("zoneId", cmd.ZoneID)
	}

	existing, err := s.locations.FindByCode(ctx, cmd.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check location code: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("location with this code already exists").
			WithDetail("code", cmd.Code)
	}

	location, err := domain.NewBinLocation(cmd.Code, cmd.ZoneID, cmd.Aisle, cmd.Bay, cmd.Level)
	if err != nil {
		return nil, err
	}

	if err := s.locations.Save(ctx, location); err != nil {
		s.logger.WithError(err).Error("Failed to save location", "code", cmd.Code)
		return nil, fmt.Errorf("failed to save location: %w", err)
	}

	s.logger.Info("Created location", "locationId", location.ID, "code", location.Code, "zoneId", location.ZoneID)
	return ToLocationDTO(location), nil
}

// GetLocation retrieves a bin location by ID
func (s *CatalogService) GetLocation(ctx context.Context, locationID string) (*LocationDTO, error) {
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return nil, errors.ErrNotFoundWithID("location", locationID)
	}
	return ToLocationDTO(location), nil
}

// ListLocations retrieves one page of bin locations
func (s *CatalogService) ListLocations(ctx context.Context, query ListQuery) (*api.PageResponse[LocationDTO], error) {
	page := normalizePage(query.Pagination)

	locations, total, err := s.locations.FindAll(ctx, page.GetLimit(), page.GetOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	resp := api.NewPageResponse(ToLocationDTOs(locations), page.Page, page.PageSize, total)
	return &resp, nil
}

// DeactivateLocation marks a bin location as inactive
func (s *CatalogService) DeactivateLocation(ctx context.Context, cmd DeactivateLocationCommand) (*LocationDTO, error) {
	location, err := s.locations.FindByID(ctx, cmd.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return nil, errors.ErrNotFoundWithID("location", cmd.LocationID)
	}

	location.Deactivate()

	if err := s.locations.Update(ctx, location); err != nil {
		s.logger.WithError(err).Error("Failed to update location", "locationId", cmd.LocationID)
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	s.logger.Info("Deactivated location", "locationId", cmd.LocationID)
	return ToLocationDTO(location), nil
}

// CreateItem creates a new item. The SKU must be unique.
func (s *CatalogService) CreateItem(ctx context.Context, cmd CreateItemCommand) (*ItemDTO, error) {
	existing, err := s.items.FindBySKU(ctx, cmd.SKU)
	if err != nil {
		return nil, fmt.Errorf("failed to check sku: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("item with this sku already exists").
			WithDetail("sku", cmd.SKU)
	}

	item, err := domain.NewItem(cmd.SKU, cmd.Description, cmd.Category, cmd.WeightKg)
	if err != nil {
		return nil, err
	}

	if err := s.items.Save(ctx, item); err != nil {
		s.logger.WithError(err).Error("Failed to save item", "sku", cmd.SKU)
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Info("Created item", "itemId", item.ID, "sku", item.SKU)
	return ToItemDTO(item), nil
}

// GetItem retrieves an item by ID
func (s *CatalogService) GetItem(ctx context.Context, itemID string) (*ItemDTO, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, errors.ErrNotFoundWithID("item", itemID)
	}
	return ToItemDTO(item), nil
}

// ListItems retrieves one page of items
func (s *CatalogService) ListItems(ctx context.Context, query ListQuery) (*api.PageResponse[ItemDTO], error) {
	page := normalizePage(query.Pagination)

	items, total, err := s.items.FindAll(ctx, page.GetLimit(), page.GetOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	resp := api.NewPageResponse(ToItemDTOs(items), page.Page, page.PageSize, total)
	return &resp, nil
}

// DeactivateItem marks an item as inactive
func (s *CatalogService) DeactivateItem(ctx context.Context, cmd DeactivateItemCommand) (*ItemDTO, error) {
	item, err := s.items.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, errors.ErrNotFoundWithID("item", cmd.ItemID)
	}

	item.Deactivate()

	if err := s.items.Update(ctx, item); err != nil {
		s.logger.WithError(err).Error("Failed to update item", "itemId", cmd.ItemID)
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.Info("Deactivated item", "itemId", cmd.ItemID)
	return ToItemDTO(item), nil
}

// CreateOrder creates a new order. The order number must be unique.
func (s *CatalogService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderDTO, error) {
	priority, err := domain.NewOrderPriority(cmd.Priority)
	if err != nil {
		return nil, err
	}

	existing, err := s.orders.FindByNumber(ctx, cmd.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to check order number: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("order with this number already exists").
			WithDetail("number", cmd.Number)
	}

	order, err := domain.NewOrder(cmd.Number, cmd.CustomerName, cmd.OrderedAt, priority)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save order", "number", cmd.Number)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Info("Created order", "orderId", order.ID, "number", order.Number)
	return ToOrderDTO(order), nil
}

// GetOrder retrieves an order by ID
func (s *CatalogService) GetOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("order", orderID)
	}
	return ToOrderDTO(order), nil
}

// ListOrders retrieves one page of orders
func (s *CatalogService) ListOrders(ctx context.Context, query ListQuery) (*api.PageResponse[OrderDTO], error) {
	page := normalizePage(query.Pagination)

	orders, total, err := s.orders.FindAll(ctx, page.GetLimit(), page.GetOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	resp := api.NewPageResponse(ToOrderDTOs(orders), page.Page, page.PageSize, total)
	return &resp, nil
}

// AdvanceOrderStatus moves an order forward through its lifecycle
func (s *CatalogService) AdvanceOrderStatus(ctx context.Context, cmd AdvanceOrderStatusCommand) (*OrderDTO, error) {
	status, err := domain.NewOrderStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("order", cmd.OrderID)
	}

	if err := order.AdvanceStatus(status); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to update order", "orderId", cmd.OrderID)
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info("Advanced order status", "orderId", cmd.OrderID, "status", cmd.Status)
	return ToOrderDTO(order), nil
}
