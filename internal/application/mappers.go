package application

import (
	"github.com/wms-platform/productivity-service/internal/analytics"
	"github.com/wms-platform/productivity-service/internal/domain"
)

// ToWorkerDTO converts a domain Worker to WorkerDTO
func ToWorkerDTO(worker *domain.Worker) *WorkerDTO {
	if worker == nil {
		return nil
	}
	return &WorkerDTO{
		ID:           worker.ID,
		Name:         worker.Name,
		EmployeeCode: worker.EmployeeCode,
		Shift:        worker.Shift.String(),
		HourlyRate:   worker.HourlyRate,
		HireDate:     worker.HireDate,
		Active:       worker.Active,
		CreatedAt:    worker.CreatedAt,
		UpdatedAt:    worker.UpdatedAt,
	}
}

// ToWorkerDTOs converts a slice of domain Workers to WorkerDTOs
func ToWorkerDTOs(workers []*domain.Worker) []WorkerDTO {
	dtos := make([]WorkerDTO, 0, len(workers))
	for _, worker := range workers {
		if dto := ToWorkerDTO(worker); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToZoneDTO converts a domain Zone to ZoneDTO
func ToZoneDTO(zone *domain.Zone) *ZoneDTO {
	if zone == nil {
		return nil
	}
	return &ZoneDTO{
		ID:        zone.ID,
		Code:      zone.Code,
		Name:      zone.Name,
		Type:      zone.Type.String(),
		CreatedAt: zone.CreatedAt,
		UpdatedAt: zone.UpdatedAt,
	}
}

// ToZoneDTOs converts a slice of domain Zones to ZoneDTOs
func ToZoneDTOs(zones []*domain.Zone) []ZoneDTO {
	dtos := make([]ZoneDTO, 0, len(zones))
	for _, zone := range zones {
		if dto := ToZoneDTO(zone); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToLocationDTO converts a domain BinLocation to LocationDTO
func ToLocationDTO(location *domain.BinLocation) *LocationDTO {
	if location == nil {
		return nil
	}
	return &LocationDTO{
		ID:        location.ID,
		Code:      location.Code,
		ZoneID:    location.ZoneID,
		Aisle:     location.Aisle,
		Bay:       location.Bay,
		Level:     location.Level,
		Active:    location.Active,
		CreatedAt: location.CreatedAt,
		UpdatedAt: location.UpdatedAt,
	}
}

// ToLocationDTOs converts a slice of domain BinLocations to LocationDTOs
func ToLocationDTOs(locations []*domain.BinLocation) []LocationDTO {
	dtos := make([]LocationDTO, 0, len(locations))
	for _, location := range locations {
		if dto := ToLocationDTO(location); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToItemDTO converts a domain Item to ItemDTO
func ToItemDTO(item *domain.Item) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		SKU:         item.SKU,
		Description: item.Description,
		Category:    item.Category,
		WeightKg:    item.WeightKg,
		Active:      item.Active,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ToItemDTOs converts a slice of domain Items to ItemDTOs
func ToItemDTOs(items []*domain.Item) []ItemDTO {
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		if dto := ToItemDTO(item); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToOrderDTO converts a domain Order to OrderDTO
func ToOrderDTO(order *domain.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	return &OrderDTO{
		ID:           order.ID,
		Number:       order.Number,
		CustomerName: order.CustomerName,
		OrderedAt:    order.OrderedAt,
		Priority:     order.Priority.String(),
		Status:       order.Status.String(),
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// ToOrderDTOs converts a slice of domain Orders to OrderDTOs
func ToOrderDTOs(orders []*domain.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		if dto := ToOrderDTO(order); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToPickEventDTO converts a domain PickEvent to PickEventDTO. The derived
// duration is rounded here, at the presentation edge only.
func ToPickEventDTO(event *domain.PickEvent) *PickEventDTO {
	if event == nil {
		return nil
	}

	dto := &PickEventDTO{
		ID:          event.ID,
		OrderID:     event.OrderID,
		WorkerID:    event.WorkerID,
		ItemID:      event.ItemID,
		LocationID:  event.LocationID,
		Quantity:    event.Quantity,
		StartedAt:   event.StartedAt,
		CompletedAt: event.CompletedAt,
		ShortPick:   event.ShortPick,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}

	if seconds, err := analytics.DurationSeconds(event); err == nil {
		dto.DurationSeconds = analytics.Round2Ptr(seconds)
	}

	return dto
}

// ToPickEventDTOs converts a slice of domain PickEvents to PickEventDTOs
func ToPickEventDTOs(events []*domain.PickEvent) []PickEventDTO {
	dtos := make([]PickEventDTO, 0, len(events))
	for _, event := range events {
		if dto := ToPickEventDTO(event); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}
