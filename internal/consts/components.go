package consts

const (
	COMPONENT_LOGGING       = "logging"
	COMPONENT_HTTP_SERVER   = "http_server"
	COMPONENT_HTTP_CLIENTS  = "http_clients"
	COMPONENT_REDIS         = "redis"
	COMPONENT_PROMETHEUS    = "prometheus"
	COMPONENT_TELEMETRY     = "telemetry"
	COMPONENT_MYSQL_GORM    = "mysql_gorm"
	COMPONENT_POSTGRES_GORM = "postgres_gorm"
)

const (
	COMP_DAO_TASK     = "task_dao"
	COMP_DAO_PROJECT  = "project_dao"
	COMP_DAO_WORKFLOW = "workflow_dao"

	COMP_SVC_TASK     = "task_service"
	COMP_SVC_PROJECT  = "project_service"
	COMP_SVC_WORKFLOW = "workflow_service"

	COMP_CTRL_TASK     = "task_ctrl"
	COMP_CTRL_PROJECT  = "project_ctrl"
	COMP_CTRL_WORKFLOW = "workflow_ctrl"
)
