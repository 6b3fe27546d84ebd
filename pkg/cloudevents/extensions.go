package cloudevents

// CloudEvents extension attribute names carried as kafka headers (ce-*)
const (
	ExtCorrelationID = "wmscorrelationid"
	ExtOrderID       = "wmsorderid"
	ExtFacilityID    = "wmsfacilityid"
	ExtWarehouseID   = "wmswarehouseid"

	ExtTraceParent = "traceparent"
	ExtTraceState  = "tracestate"
)

// WithCorrelation sets the correlation ID and returns the event
func (e *WMSCloudEvent) WithCorrelation(correlationID string) *WMSCloudEvent {
	e.CorrelationID = correlationID
	return e
}

// WithFacility sets facility and warehouse context and returns the event
func (e *WMSCloudEvent) WithFacility(facilityID, warehouseID string) *WMSCloudEvent {
	e.FacilityID = facilityID
	e.WarehouseID = warehouseID
	return e
}
