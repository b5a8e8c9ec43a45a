package response

// TenantInfo identifies the tenant a response was served under
type TenantInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Envelope is the uniform response format for every endpoint
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data"`
	Tenant  *TenantInfo       `json:"tenant"`
	Meta    interface{}       `json:"meta,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"` // per-field map on validation failure
}

// Success wraps data in a successful envelope
func Success(message string, data interface{}, tenant *TenantInfo) Envelope {
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Tenant:  tenant,
	}
}

// List wraps a page of data with its meta
func List(message string, data interface{}, meta interface{}, tenant *TenantInfo) Envelope {
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Tenant:  tenant,
		Meta:    meta,
	}
}

// Error wraps an error message
func Error(message string, tenant *TenantInfo) Envelope {
	return Envelope{
		Success: false,
		Message: message,
		Tenant:  tenant,
	}
}

// ValidationError wraps a per-field error map
func ValidationError(message string, fields map[string]string, tenant *TenantInfo) Envelope {
	return Envelope{
		Success: false,
		Message: message,
		Tenant:  tenant,
		Errors:  fields,
	}
}
