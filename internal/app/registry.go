package app

import (
	"database/sql"
	"os"
	"path/filepath"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employeesalary"
	"go-payroll/internal/formula"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func rbacModelPath() string {
	if path := os.Getenv("RBAC_MODEL_PATH"); path != "" {
		return path
	}
	return filepath.Join("internal", "rbac", "infra", "model.conf")
}

func payslipStorageDir() string {
	if dir := os.Getenv("PAYSLIP_STORAGE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join("storage", "payslips")
}

type services struct {
	attendance     attendance.Service
	component      salarycomponent.Service
	employeeSalary employeesalary.Service
	formula        formula.Service
	payroll        payroll.Service
}

// buildServices wires the salary, attendance and formula collaborators into
// the payroll service. The API and the payslip consumer share it.
func buildServices(db *sql.DB, gormDB *gorm.DB, rdb *redis.Client) services {
	componentRepo := salarycomponent.NewRepository(gormDB)
	formulaRepo := formula.NewRepository(gormDB)
	employeeSalaryRepo := employeesalary.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	formulaService := formula.NewService(formulaRepo)
	employeeSalaryService := employeesalary.NewService(db, employeeSalaryRepo, componentRepo, formulaService)
	attendanceService := attendance.NewService(db, attendanceRepo)

	return services{
		attendance:     attendanceService,
		component:      salarycomponent.NewService(componentRepo, rdb),
		employeeSalary: employeeSalaryService,
		formula:        formulaService,
		payroll: payroll.NewService(
			db,
			payrollRepo,
			employeeSalaryService,
			attendanceService,
			counterRepo,
			outboxRepo,
			payroll.NewLocalStorage(payslipStorageDir()),
		),
	}
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(rbacModelPath())
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewRepository(gormDB), enforcer)

	// --- Services ---
	svc := buildServices(db, gormDB, rdb)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(svc.attendance)
	componentHandler := salarycomponent.NewHandler(svc.component)
	employeeSalaryHandler := employeesalary.NewHandler(svc.employeeSalary)
	formulaHandler := formula.NewHandler(svc.formula)
	payrollHandler := payroll.NewHandlerWithRedis(svc.payroll, rdb)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		salarycomponent.RegisterRoutes(api, componentHandler, rbacService)
		employeesalary.RegisterRoutes(api, employeeSalaryHandler, rbacService)
		formula.RegisterRoutes(api, formulaHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
