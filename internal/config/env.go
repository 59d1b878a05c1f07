package config

import (
	"github.com/JaimeStill/pest-lab/internal/classifiers"
	"github.com/JaimeStill/pest-lab/internal/dataset"
	"github.com/JaimeStill/pest-lab/internal/prompts"
	"github.com/JaimeStill/pest-lab/internal/reports"
	"github.com/JaimeStill/pest-lab/pkg/database"
	"github.com/JaimeStill/pest-lab/pkg/logging"
	"github.com/JaimeStill/pest-lab/pkg/pagination"
	"github.com/JaimeStill/pest-lab/pkg/storage"
)

var loggingEnv = &logging.Env{
	Level:  "PESTLAB_LOG_LEVEL",
	Format: "PESTLAB_LOG_FORMAT",
	Output: "PESTLAB_LOG_OUTPUT",
}

var storageEnv = &storage.Env{
	BasePath:     "PESTLAB_STORAGE_BASE_PATH",
	MaxImageSize: "PESTLAB_STORAGE_MAX_IMAGE_SIZE",
}

var databaseEnv = &database.Env{
	Enabled:         "PESTLAB_DATABASE_ENABLED",
	Host:            "PESTLAB_DATABASE_HOST",
	Port:            "PESTLAB_DATABASE_PORT",
	Name:            "PESTLAB_DATABASE_NAME",
	User:            "PESTLAB_DATABASE_USER",
	Password:        "PESTLAB_DATABASE_PASSWORD",
	MaxOpenConns:    "PESTLAB_DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "PESTLAB_DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PESTLAB_DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "PESTLAB_DATABASE_CONN_TIMEOUT",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "PESTLAB_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "PESTLAB_PAGINATION_MAX_PAGE_SIZE",
}

var catalogEnv = &prompts.Env{
	Labels:     "PESTLAB_CATALOG_LABELS",
	Stages:     "PESTLAB_CATALOG_STAGES",
	Exceptions: "PESTLAB_CATALOG_EXCEPTIONS",
	Prefix:     "PESTLAB_CATALOG_PREFIX",
}

var datasetEnv = &dataset.Env{
	Root:       "PESTLAB_DATASET_ROOT",
	RenderPDFs: "PESTLAB_DATASET_RENDER_PDFS",
	PageDPI:    "PESTLAB_DATASET_PAGE_DPI",
}

var classifierEnv = &classifiers.Env{
	Backend:     "PESTLAB_CLASSIFIER_BACKEND",
	Endpoint:    "PESTLAB_CLASSIFIER_ENDPOINT",
	Timeout:     "PESTLAB_CLASSIFIER_TIMEOUT",
	AgentConfig: "PESTLAB_CLASSIFIER_AGENT_CONFIG",
}

var reportsEnv = &reports.Env{
	Dir: "PESTLAB_REPORTS_DIR",
}
