package dashboard

// Canned payloads mirroring what a populated cloud server would return. Two
// fixture services, one running and one stopped, give the dashboard enough
// variety to render meaningfully.

const statusBody = `{
  "success": true,
  "data": {
    "is_active": true,
    "services_count": 2,
    "active_services": [
      {
        "id": "service-1",
        "name": "users-service",
        "version": "1.0.0",
        "port": 3001,
        "is_running": true,
        "endpoints": [
          {"method": "GET", "path": "/users", "description": "Get all users"},
          {"method": "POST", "path": "/users", "description": "Create user"}
        ],
        "endpoints_count": 2,
        "definition": "name: users-service\nversion: 1.0.0"
      },
      {
        "id": "service-2",
        "name": "payment-service",
        "version": "1.2.0",
        "port": 3002,
        "is_running": false,
        "endpoints": [
          {"method": "POST", "path": "/pay", "description": "Process payment"}
        ],
        "endpoints_count": 1,
        "definition": "name: payment-service\nversion: 1.2.0"
      }
    ]
  }
}`

const servicesBody = `{
  "success": true,
  "data": [
    {"name": "users-service", "version": "1.0.0", "port": 3001, "is_running": true, "endpoints_count": 2},
    {"name": "payment-service", "version": "1.2.0", "port": 3002, "is_running": false, "endpoints_count": 1}
  ]
}`

const logsBody = `{
  "success": true,
  "data": {
    "logs": [
      {"timestamp": "2023-10-27T10:00:00Z", "service": "users-service", "method": "GET", "path": "/users", "status": 200, "duration_ms": 15},
      {"timestamp": "2023-10-27T10:00:05Z", "service": "payment-service", "method": "POST", "path": "/pay", "status": 500, "duration_ms": 45}
    ],
    "total": 2,
    "filtered": 2
  }
}`

const twinsBody = `{"success": true, "data": ["thermostat-twin", "vehicle-twin"]}`

const marketplaceBody = `{
  "success": true,
  "data": [
    {
      "id": "1",
      "name": "Auth Service",
      "description": "Standard authentication service",
      "category": "Security",
      "definition_url": "http://example.com/auth.yaml"
    }
  ]
}`

const aiConfigBody = `{"success": true, "data": {"is_configured": true, "provider": "openai", "issues": []}}`

const reloadBody = `{"success": true}`

const emptyLogsBody = `{"data": {"logs": [], "total": 0, "filtered": 0}}`

const metricsBody = `{"data": {"cpu": 10, "memory": 20, "uptime": 100}}`

// RegisterDemoRoutes installs the full mock backend used for the recorded
// sidebar walk. Specific endpoint rules go in first; the `**/api/**`
// catch-all that absorbs remaining writes is registered last so it only sees
// requests no earlier rule claimed.
func RegisterDemoRoutes(m *MockRouter) error {
	type binding struct {
		pattern string
		respond Responder
	}
	bindings := []binding{
		{"**/status", JSONAlways(200, statusBody)},
		{"**/api/services/reload", JSONAlways(200, reloadBody)},
		{"**/api/services", JSONForGet(200, servicesBody)},
		{"**/api/logs**", JSONAlways(200, logsBody)},
		{"**/api/iot/twins", JSONAlways(200, twinsBody)},
		{"**/api/marketplace", JSONAlways(200, marketplaceBody)},
		{"**/api/ai/config", JSONAlways(200, aiConfigBody)},
		{"**/api/**", WriteSuccess()},
	}
	for _, b := range bindings {
		if err := m.Register(b.pattern, b.respond); err != nil {
			return err
		}
	}
	return nil
}

// RegisterVerifyRoutes installs the lighter rule set for the screenshot-only
// verification pass: simulator status plus the polls the dashboard makes on
// load, with empty log data.
func RegisterVerifyRoutes(m *MockRouter) error {
	type binding struct {
		pattern string
		respond Responder
	}
	bindings := []binding{
		{"**/status", JSONAlways(200, statusBody)},
		{"**/api/system/metrics", JSONAlways(200, metricsBody)},
		{"**/api/logs*", JSONAlways(200, emptyLogsBody)},
	}
	for _, b := range bindings {
		if err := m.Register(b.pattern, b.respond); err != nil {
			return err
		}
	}
	return nil
}
