package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/certify/data/db/reports.db"
	}
	if cfg.Knowledge.IndexPath == "" {
		cfg.Knowledge.IndexPath = "/usr/local/var/certify/data/indices/guidance"
	}
	if cfg.Knowledge.MaxCitations == 0 {
		cfg.Knowledge.MaxCitations = 3
	}
	if cfg.Agents.DesignerURL == "" {
		cfg.Agents.DesignerURL = "http://localhost:9001/designer-agent"
	}
	if cfg.Agents.CostEngineerURL == "" {
		cfg.Agents.CostEngineerURL = "http://localhost:9001/cost-engineer-agent"
	}
	if cfg.Agents.InstallerURL == "" {
		cfg.Agents.InstallerURL = "http://localhost:9001/installer-agent"
	}
	if cfg.Agents.CommissioningURL == "" {
		cfg.Agents.CommissioningURL = "http://localhost:9001/commissioning-agent"
	}
	if cfg.Agents.TimeoutSeconds == 0 {
		cfg.Agents.TimeoutSeconds = 60
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 120
	}
}
