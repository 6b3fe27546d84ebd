package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/wms-platform/productivity-service/pkg/logging"
)

// WMS CloudEvents extension context keys
const (
	ContextKeyWMSCorrelationID = "wmsCorrelationId"
	ContextKeyWMSFacilityID    = "wmsFacilityId"
	ContextKeyWMSWarehouseID   = "wmsWarehouseId"
	ContextKeyWMSOrderID       = "wmsOrderId"
)

// WMS CloudEvents extension headers
const (
	HeaderWMSCorrelationID = "X-WMS-Correlation-ID"
	HeaderWMSFacilityID    = "X-WMS-Facility-ID"
	HeaderWMSWarehouseID   = "X-WMS-Warehouse-ID"
	HeaderWMSOrderID       = "X-WMS-Order-ID"
)

// CloudEvents middleware extracts WMS CloudEvents extension headers and
// propagates them through the request context and response headers. The
// extensions carried here mirror the ones stamped on published events, so
// a caller that forwards these headers gets end-to-end correlation across
// the HTTP and Kafka legs of a flow.
func CloudEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(HeaderWMSCorrelationID)
		if correlationID == "" {
			// Fall back to the generic correlation header
			correlationID = GetCorrelationID(c)
		}
		facilityID := c.GetHeader(HeaderWMSFacilityID)
		warehouseID := c.GetHeader(HeaderWMSWarehouseID)
		orderID := c.GetHeader(HeaderWMSOrderID)

		if correlationID != "" {
			c.Set(ContextKeyWMSCorrelationID, correlationID)
		}
		if facilityID != "" {
			c.Set(ContextKeyWMSFacilityID, facilityID)
		}
		if warehouseID != "" {
			c.Set(ContextKeyWMSWarehouseID, warehouseID)
		}
		if orderID != "" {
			c.Set(ContextKeyWMSOrderID, orderID)
		}

		// Enrich the request context so downstream logging carries the
		// event attributes without each handler re-plumbing them.
		if correlationID != "" || orderID != "" || facilityID != "" {
			ctx := logging.ContextWithEventAttrs(c.Request.Context(), correlationID, orderID, facilityID)
			c.Request = c.Request.WithContext(ctx)
		}

		// Echo the extensions back so callers can stitch request and
		// response sides of a correlation chain
		if correlationID != "" {
			c.Header(HeaderWMSCorrelationID, correlationID)
		}
		if facilityID != "" {
			c.Header(HeaderWMSFacilityID, facilityID)
		}

		c.Next()
	}
}

// GetWMSCorrelationID returns the WMS correlation ID from the context
func GetWMSCorrelationID(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyWMSCorrelationID); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return GetCorrelationID(c)
}

// GetWMSFacilityID returns the WMS facility ID from the context
func GetWMSFacilityID(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyWMSFacilityID); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetWMSWarehouseID returns the WMS warehouse ID from the context
func GetWMSWarehouseID(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyWMSWarehouseID); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetWMSOrderID returns the WMS order ID from the context
func GetWMSOrderID(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyWMSOrderID); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
