package stage

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/apicentric/cloudcheck/internal/executor"
)

// ServiceName is the service created by the run and cleaned up at the end.
// Every service operation in the plan references it.
const ServiceName = "test-service"

// credentials used by the auth stage. The register call tolerates 409-style
// conflicts only via its accepted set; the account is expected to be
// throwaway on a fresh instance.
const (
	testUsername = "testuser"
	testPassword = "testpass123"
)

// ServiceDefinition mirrors the cloud server's YAML service schema. The
// create-service call wraps the marshaled document in a JSON field.
type ServiceDefinition struct {
	Name        string             `yaml:"name"`
	Version     string             `yaml:"version"`
	Description string             `yaml:"description"`
	Server      ServiceServer      `yaml:"server"`
	Endpoints   []ServiceEndpoint  `yaml:"endpoints"`
}

type ServiceServer struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type ServiceEndpoint struct {
	Method    string                      `yaml:"method"`
	Path      string                      `yaml:"path"`
	Responses map[int]ServiceResponseSpec `yaml:"responses"`
}

type ServiceResponseSpec struct {
	ContentType string `yaml:"content_type"`
	Body        string `yaml:"body"`
}

// testServiceDefinition is the fixture service exercised by the run: one GET
// endpoint answering a static JSON body.
func testServiceDefinition() ServiceDefinition {
	return ServiceDefinition{
		Name:        ServiceName,
		Version:     "1.0",
		Description: "Test service",
		Server:      ServiceServer{Port: 9001, BasePath: "/api"},
		Endpoints: []ServiceEndpoint{
			{
				Method: "GET",
				Path:   "/hello",
				Responses: map[int]ServiceResponseSpec{
					200: {
						ContentType: "application/json",
						Body:        `{"message": "Hello World"}` + "\n",
					},
				},
			},
		},
	}
}

// createServicePayload marshals the fixture definition to YAML and wraps it
// in the JSON envelope the create endpoint expects.
func createServicePayload() (string, error) {
	doc, err := yaml.Marshal(testServiceDefinition())
	if err != nil {
		return "", fmt.Errorf("marshal service definition: %w", err)
	}
	body, err := json.Marshal(map[string]string{"yaml": string(doc)})
	if err != nil {
		return "", fmt.Errorf("wrap service definition: %w", err)
	}
	return string(body), nil
}

func jsonBody(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// All plan bodies are built from literals; a marshal failure here is
		// a programming error.
		panic(fmt.Sprintf("stage: marshal body: %v", err))
	}
	return string(b)
}

// Plan returns the fixed stage sequence. Destructive operations (delete,
// logout) are scheduled last so the run always attempts to release state it
// created, even after earlier failures.
func Plan() ([]Stage, error) {
	createBody, err := createServicePayload()
	if err != nil {
		return nil, err
	}

	credentials := jsonBody(map[string]string{
		"username": testUsername,
		"password": testPassword,
	})

	servicePath := "/api/services/" + ServiceName

	return []Stage{
		{
			Name: "health check",
			Operations: []Operation{
				{Label: "GET /health", Method: "GET", Path: "/health"},
			},
		},
		{
			Name: "authentication api",
			Operations: []Operation{
				{Label: "POST /api/auth/register", Method: "POST", Path: "/api/auth/register",
					Body: credentials, Accept: []int{200, 201}, TokenPath: "token"},
				{Label: "POST /api/auth/login", Method: "POST", Path: "/api/auth/login",
					Body: credentials, TokenPath: "token"},
				{Label: "GET /api/auth/me", Method: "GET", Path: "/api/auth/me", Auth: true},
				{Label: "POST /api/auth/refresh", Method: "POST", Path: "/api/auth/refresh",
					Auth: true, TokenPath: "token"},
			},
		},
		{
			Name: "service management api",
			Operations: []Operation{
				{Label: "GET /api/services", Method: "GET", Path: "/api/services", Auth: true},
				{Label: "POST /api/services", Method: "POST", Path: "/api/services",
					Body: createBody, Auth: true, Accept: []int{200, 201}},
				{Label: "GET " + servicePath, Method: "GET", Path: servicePath, Auth: true},
				{Label: "POST " + servicePath + "/start", Method: "POST", Path: servicePath + "/start",
					Auth: true, SettleAfter: time.Second},
				{Label: "GET " + servicePath + "/status", Method: "GET", Path: servicePath + "/status", Auth: true},
				{Label: "POST " + servicePath + "/stop", Method: "POST", Path: servicePath + "/stop", Auth: true},
			},
		},
		{
			Name: "request logs api",
			Operations: []Operation{
				{Label: "GET /api/logs", Method: "GET", Path: "/api/logs", Auth: true},
			},
		},
		{
			Name: "recording api",
			Operations: []Operation{
				{Label: "GET /api/recording/status", Method: "GET", Path: "/api/recording/status", Auth: true},
			},
		},
		{
			Name: "ai generation api",
			Operations: []Operation{
				{Label: "GET /api/ai/config", Method: "GET", Path: "/api/ai/config", Auth: true},
			},
		},
		{
			Name: "code generation api",
			Operations: []Operation{
				{Label: "POST /api/codegen/typescript", Method: "POST", Path: "/api/codegen/typescript",
					Body: jsonBody(map[string]string{"service_name": ServiceName}), Auth: true,
					Inspect: func(out executor.Outcome) string {
						if code := out.Field("data.code"); code != "" {
							return fmt.Sprintf("Generated %d characters of TypeScript code", len(code))
						}
						return ""
					}},
			},
		},
		{
			Name: "configuration api",
			Operations: []Operation{
				{Label: "GET /api/config", Method: "GET", Path: "/api/config", Auth: true},
			},
		},
		{
			Name: "cleanup",
			Operations: []Operation{
				{Label: "DELETE " + servicePath, Method: "DELETE", Path: servicePath, Auth: true},
				{Label: "POST /api/auth/logout", Method: "POST", Path: "/api/auth/logout",
					Auth: true, ClearsToken: true},
			},
		},
	}, nil
}
