package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal" // (우아한 종료)
	"strconv"
	"syscall" // (우아한 종료)
	"time"

	_ "github.com/go-sql-driver/mysql" // 드라이버 임포트
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/mysql/v2" // (MySQL 스토어)
	"github.com/gofiber/template/html/v2"
	log "github.com/sirupsen/logrus" // Logrus 사용
	"github.com/sizzlei/confloader"

	// Recruitdesk의 내부 패키지 임포트
	"recruitdesk/internal/activity"
	"recruitdesk/internal/application"
	"recruitdesk/internal/auth"
	"recruitdesk/internal/branch"
	"recruitdesk/internal/dashboard"
	"recruitdesk/internal/db"
	"recruitdesk/internal/interview"
	"recruitdesk/internal/job"
	"recruitdesk/internal/mailer"
	"recruitdesk/internal/middleware"
	"recruitdesk/internal/scheduler"
	"recruitdesk/internal/upload"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "conf", "", "parameter store key (비우면 환경 변수 사용)")
	flag.Parse()

	// Configure Setup
	// (-conf가 주어지면 파라미터 스토어, 아니면 환경 변수)
	dbi := db.DBI{
		User:     envOr("DB_USER", "recruitdesk"),
		Password: os.Getenv("DB_PASSWORD"),
		Endpoint: envOr("DB_HOST", "127.0.0.1"),
		Port:     envIntOr("DB_PORT", 3306),
		Database: envOr("DB_NAME", "recruitdesk"),
	}
	if configPath != "" {
		config, err := confloader.AWSParamLoader("ap-northeast-2", configPath)
		if err != nil {
			log.Panic(err)
		}
		repositoryConfig := config.Keyload("repository")
		dbi = db.DBI{
			User:     repositoryConfig["User"].(string),
			Password: repositoryConfig["Password"].(string),
			Endpoint: repositoryConfig["Endpoint"].(string),
			Port:     repositoryConfig["Port"].(int),
			Database: repositoryConfig["Database"].(string),
		}
	}

	// DB 연결
	dbo, err := db.CreateConnection(dbi)
	if err != nil {
		log.Fatalf("Repository Connection failed. %v", err)
	}
	log.Info("Successfully connected to the database.")

	// 스키마 마이그레이션 (버전 관리, 런타임 컬럼 probing 없음)
	if err := db.Migrate(dbo); err != nil {
		log.Fatalf("Schema migration failed. %v", err)
	}

	// 세션 스토어 (서버측 세션을 MySQL에 보관)
	sessionStore := session.New(session.Config{
		Storage: mysql.New(mysql.Config{
			Db:    dbo.DB, // (*sqlx.DB에서 표준 *sql.DB 추출)
			Table: "fiber_sessions",
		}),
		Expiration:     24 * time.Hour,
		CookieName:     "recruitdesk_session",
		CookieSecure:   false,
		CookieHTTPOnly: true,
	})
	log.Info("MySQL 세션 스토어가 설정되었습니다.")

	// 메일 발송기 (SMTP 미설정이면 no-op)
	mail := mailer.New(mailer.Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     envIntOr("SMTP_PORT", 587),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envOr("SMTP_FROM", "no-reply@recruitdesk.local"),
	})

	// 업로드 저장 루트 (서빙 트리 바깥)
	validator, err := upload.NewValidator(envOr("UPLOAD_ROOT", "./data/uploads"))
	if err != nil {
		log.Fatalf("업로드 저장 루트 초기화 실패: %v", err)
	}

	// --- 의존성 조립 (Dependency Injection) ---

	activityStore := activity.NewStore(dbo)

	// Auth
	authStore := auth.NewStore(dbo)
	authService := auth.NewService(authStore, mail)
	authHandler := auth.NewAuthHandler(authService, sessionStore, activityStore)

	// Branch
	branchStore := branch.NewStore(dbo)
	branchHandler := branch.NewBranchHandler(branchStore, sessionStore, activityStore)

	// Job
	jobStore := job.NewStore(dbo)
	jobService := job.NewService(jobStore)
	jobHandler := job.NewJobHandler(jobService, sessionStore, branchStore, activityStore)

	// Application
	appStore := application.NewStore(dbo)
	appService := application.NewService(appStore, jobStore, mail, validator)
	appHandler := application.NewApplicationHandler(appService, jobService, validator, sessionStore, activityStore)

	// Interview
	interviewStore := interview.NewStore(dbo)
	interviewService := interview.NewService(interviewStore, appStore, jobStore, mail)
	interviewHandler := interview.NewInterviewHandler(interviewService, sessionStore, activityStore)

	// Dashboard
	dashboardService := dashboard.NewService(appStore, jobStore, interviewStore, authStore, branchStore)
	dashboardHandler := dashboard.NewDashboardHandler(dashboardService)

	// Scheduler
	sched := scheduler.NewScheduler(authStore, interviewService)

	// Fiber 앱 생성 및 템플릿 설정
	engine := html.New("./web/views", ".html")
	engine.Reload(os.Getenv("TEMPLATE_RELOAD") == "true") // 개발 중 캐시 끄기

	app := fiber.New(fiber.Config{
		Views: engine,
	})

	// 정적 파일(CSS, JS) 라우팅
	app.Static("/public", "./web/public")

	// 라우트(URL) 설정
	log.Info("라우트를 설정합니다...")

	// 인증이 필요 *없는* 그룹
	authGroup := app.Group("/auth")
	{
		authGroup.Get("/register", authHandler.HandleShowRegisterPage)
		authGroup.Post("/register", authHandler.HandleRegister)
		authGroup.Get("/verify", authHandler.HandleVerifyEmail)
		authGroup.Get("/login", authHandler.HandleShowLoginPage)
		authGroup.Post("/login", authHandler.HandleLogin)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/auth/login")
	})

	// 1. 인증이 *필요한* 그룹 (로그인한 모든 사용자)
	appGroup := app.Group("/", middleware.AuthMiddleware(sessionStore, authService))
	{
		appGroup.Get("/auth/logout", authHandler.HandleLogout)

		// [공고] - 목록은 모든 역할, 지원은 지원자 계정이 대상
		appGroup.Get("/jobs", jobHandler.HandleShowJobPage)
		appGroup.Get("/jobs/:id/apply", appHandler.HandleShowApplyPage)
		appGroup.Post("/jobs/:id/apply", appHandler.HandleSubmit)

		// [내 지원 현황] (지원자)
		appGroup.Get("/applications", appHandler.HandleShowMyApplications)
		appGroup.Post("/applications/edit/:id", appHandler.HandleEdit)
		appGroup.Post("/applications/withdraw/:id", appHandler.HandleWithdraw)
	}

	// 2. staff 전용 그룹 (hr, admin)
	staffGroup := app.Group("/",
		middleware.AuthMiddleware(sessionStore, authService),
		middleware.RequireRole(auth.RoleHR),
	)
	{
		staffGroup.Get("/dashboard", dashboardHandler.HandleShowDashboard)

		// [공고 관리]
		staffGroup.Post("/jobs", jobHandler.HandleCreateJob)
		staffGroup.Post("/jobs/edit/:id", jobHandler.HandleUpdateJob)
		staffGroup.Post("/jobs/close/:id", jobHandler.HandleCloseJob)

		// [지원서 검토]
		staffGroup.Get("/review", appHandler.HandleShowReviewPage)
		staffGroup.Get("/review/:id", appHandler.HandleShowDetail)
		staffGroup.Post("/review/:id/status", appHandler.HandleTransition)

		// [면접 일정]
		staffGroup.Post("/interviews", interviewHandler.HandleSchedule)
		staffGroup.Post("/interviews/:id/status", interviewHandler.HandleUpdateStatus)
	}

	// 3. 관리자 전용 그룹
	adminGroup := app.Group("/admin",
		middleware.AuthMiddleware(sessionStore, authService),
		middleware.AdminOnly(),
	)
	{
		adminGroup.Get("/users", authHandler.HandleShowAdminPage)
		adminGroup.Post("/users", authHandler.HandleCreateStaff)
		adminGroup.Post("/users/:id/toggle", authHandler.HandleToggleUser)
		adminGroup.Get("/branches", branchHandler.HandleShowBranchPage)
		adminGroup.Post("/branches", branchHandler.HandleCreateBranch)
		adminGroup.Post("/branches/edit/:id", branchHandler.HandleUpdateBranch)
	}

	// 서버 시작 (우아한 종료 로직)

	// (스케줄러 시작)
	sched.Start()

	// (Fiber 앱 시작)
	go func() {
		serverPort := os.Getenv("SERVER_PORT")
		if serverPort == "" {
			serverPort = "3000"
		}
		log.Infof("Recruitdesk 서버(HTTP)가 [::]:%s 포트에서 시작됩니다.", serverPort)
		if err := app.Listen(fmt.Sprintf(":%s", serverPort)); err != nil {
			log.Panicf("HTTP 서버 Listen 실패: %v", err)
		}
	}()

	// (종료 신호 대기)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("[INFO] Recruitdesk 서버 종료 신호 수신...")

	sched.Stop()

	if err := app.Shutdown(); err != nil {
		log.Errorf("HTTP 서버 Shutdown 실패: %v", err)
	}

	log.Println("[INFO] Recruitdesk 서버가 정상적으로 종료되었습니다.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
