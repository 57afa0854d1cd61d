package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"yumzy-partner/config"

	"github.com/hashicorp/consul/api"
	log "github.com/sirupsen/logrus"
)

type Registrar struct {
	client      *api.Client
	serviceName string
	port        int
	hostname    string
}

// NewRegistrar builds a Consul client for the agent at cfg.Host. A host
// without a port gets the default agent port 8500.
func NewRegistrar(cfg config.ConsulConfig, port int) (*Registrar, error) {
	if cfg.ServiceName == "" {
		return nil, fmt.Errorf("consul: service name is required")
	}
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("get hostname: %w", err)
	}
	c := api.DefaultConfig()
	c.Address = agentAddress(cfg.Host)
	client, err := api.NewClient(c)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}
	return &Registrar{client: client, serviceName: cfg.ServiceName, port: port, hostname: hostname}, nil
}

func agentAddress(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return host + ":8500"
}

func (r *Registrar) serviceID() string {
	return fmt.Sprintf("%s-%s", r.serviceName, r.hostname)
}

func (r *Registrar) registration() *api.AgentServiceRegistration {
	return &api.AgentServiceRegistration{
		ID:      r.serviceID(),
		Name:    r.serviceName,
		Port:    r.port,
		Address: r.hostname,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", r.hostname, r.port),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}
}

// WaitForAgent polls the agent until it reports a leader or ctx ends.
func (r *Registrar) WaitForAgent(ctx context.Context, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		if _, err := r.client.Status().Leader(); err == nil {
			return nil
		}
		log.WithField("attempt", i+1).Info("[consul] waiting for agent")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return fmt.Errorf("consul not available after %d retries", maxRetries)
}

func (r *Registrar) Register() error {
	if err := r.client.Agent().ServiceRegister(r.registration()); err != nil {
		return fmt.Errorf("register service: %w", err)
	}
	log.WithFields(log.Fields{"service": r.serviceName, "port": r.port}).Info("[consul] service registered")
	return nil
}

func (r *Registrar) Deregister() error {
	if err := r.client.Agent().ServiceDeregister(r.serviceID()); err != nil {
		return fmt.Errorf("deregister service: %w", err)
	}
	log.WithField("service", r.serviceName).Info("[consul] service deregistered")
	return nil
}
