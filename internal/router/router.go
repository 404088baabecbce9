package router

import (
	"fmt"

	"pm-go/internal/config"
	"pm-go/internal/handler"
	"pm-go/internal/middleware"
	"pm-go/internal/service"
	"pm-go/internal/session"
	"pm-go/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// pages gated behind a session, path -> template file and title
var pages = []struct {
	path, file, title string
}{
	{"/dashboard", "dashboard.html", "Dashboard"},
	{"/archivio", "archivio.html", "Archivio"},
	{"/feedback", "feedback.html", "Feedback"},
	{"/profilo", "profilo.html", "Profilo"},
	{"/report", "report.html", "Report"},
	{"/scheda-sito", "scheda-sito.html", "Scheda sito"},
	{"/task-page", "task-page.html", "Task"},
	{"/team-page", "team-page.html", "Team"},
}

// SetupRouter wires services, handlers and middleware into a gin engine.
// limiter may be nil, which disables login throttling.
func SetupRouter(
	cfg *config.Config,
	sessions *session.Manager,
	logger *logrus.Logger,
	db *gorm.DB,
	limiter handler.LoginLimiter,
) (*gin.Engine, error) {
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORS(cfg))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// services
	authService := service.NewAuthService(db, sessions, cfg)
	userService := service.NewUserService(db)
	projectService := service.NewProjectService(db)
	taskService := service.NewTaskService(db)
	clientService := service.NewClientService(db)
	teamService := service.NewTeamService(db)
	milestoneService := service.NewMilestoneService(db)
	feedbackService := service.NewFeedbackService(db)

	// handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authService, limiter, cfg.Session)
	userHandler := handler.NewUserHandler(userService, sessions)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	clientHandler := handler.NewClientHandler(clientService)
	teamHandler := handler.NewTeamHandler(teamService)
	milestoneHandler := handler.NewMilestoneHandler(milestoneService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	pageHandler := handler.NewPageHandler()

	cookie := cfg.Session.CookieName
	requireAuth := middleware.AuthMiddleware(sessions, cookie)
	optionalAuth := middleware.OptionalAuth(sessions, cookie)

	r.GET("/", healthHandler.Root)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// accounts
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.POST("/logout", authHandler.Logout)

	// page shells
	r.GET("/login_page", optionalAuth, pageHandler.LoginPage)
	pageGroup := r.Group("")
	pageGroup.Use(middleware.PageAuth(sessions, cookie, "/login_page"))
	for _, p := range pages {
		pageGroup.GET(p.path, pageHandler.Page(p.file, p.title))
	}

	api := r.Group("/api")
	{
		// the only endpoint open to anonymous callers
		api.POST("/feedback", optionalAuth, feedbackHandler.SubmitFeedback)

		authorized := api.Group("")
		authorized.Use(requireAuth)
		{
			authorized.GET("/profile", userHandler.GetProfile)
			authorized.PUT("/profile", userHandler.UpdateProfile)

			authorized.GET("/users", userHandler.ListUsers)
			authorized.GET("/users/:id", userHandler.GetUser)
			authorized.DELETE("/users/:id", middleware.AdminMiddleware(userService), userHandler.DeleteUser)

			authorized.POST("/projects", projectHandler.CreateProject)
			authorized.GET("/projects", projectHandler.ListProjects)
			authorized.GET("/projects/:id", projectHandler.GetProject)
			authorized.PUT("/projects/:id", projectHandler.UpdateProject)
			authorized.DELETE("/projects/:id", projectHandler.DeleteProject)
			authorized.POST("/projects/:id/tasks", taskHandler.CreateProjectTask)
			authorized.GET("/projects/:id/tasks", taskHandler.ListProjectTasks)
			authorized.POST("/projects/:id/milestones", milestoneHandler.CreateMilestone)
			authorized.GET("/projects/:id/milestones", milestoneHandler.ListMilestones)

			authorized.POST("/tasks", taskHandler.CreateTask)
			authorized.GET("/tasks", taskHandler.ListTasks)
			authorized.GET("/tasks/:id", taskHandler.GetTask)
			authorized.PUT("/tasks/:id", taskHandler.UpdateTask)
			authorized.DELETE("/tasks/:id", taskHandler.DeleteTask)

			authorized.GET("/milestones/:id", milestoneHandler.GetMilestone)
			authorized.PUT("/milestones/:id", milestoneHandler.UpdateMilestone)
			authorized.DELETE("/milestones/:id", milestoneHandler.DeleteMilestone)

			authorized.POST("/clients", clientHandler.CreateClient)
			authorized.GET("/clients", clientHandler.ListClients)
			authorized.GET("/clients/:id", clientHandler.GetClient)
			authorized.PUT("/clients/:id", clientHandler.UpdateClient)
			authorized.DELETE("/clients/:id", clientHandler.DeleteClient)

			authorized.POST("/teams", teamHandler.CreateTeam)
			authorized.GET("/teams", teamHandler.ListTeams)
			authorized.GET("/teams/:id", teamHandler.GetTeam)
			authorized.PUT("/teams/:id", teamHandler.UpdateTeam)
			authorized.DELETE("/teams/:id", teamHandler.DeleteTeam)
			authorized.POST("/teams/:id/members", teamHandler.AddMember)
			authorized.DELETE("/teams/:id/members/:user_id", teamHandler.RemoveMember)

			authorized.GET("/feedback", feedbackHandler.ListFeedback)
			authorized.GET("/feedback/:id", feedbackHandler.GetFeedback)
		}
	}

	return r, nil
}
