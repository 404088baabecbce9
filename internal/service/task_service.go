package service

import (
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/utils"

	"gorm.io/gorm"
)

// TaskService task operations
type TaskService struct {
	db          *gorm.DB
	taskRepo    *repository.TaskRepository
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
}

// NewTaskService creates a TaskService over db
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{
		db:          db,
		taskRepo:    repository.NewTaskRepository(db),
		projectRepo: repository.NewProjectRepository(db),
		userRepo:    repository.NewUserRepository(db),
	}
}

// Create inserts a task for the project named in the body
func (s *TaskService) Create(req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if req.ProjectID == nil {
		var tc timestampCollector
		tc.parse("due_date", req.DueDate)
		missing := utils.Violation{Field: "project_id", Message: "project_id is required"}
		fields := ValidateTask(TaskFields{Name: req.Name, Status: req.Status})
		return nil, check(append(tc.violations, missing), fields)
	}
	return s.CreateInProject(*req.ProjectID, req)
}

// CreateInProject inserts a task under projectID
func (s *TaskService) CreateInProject(projectID uint, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	var tc timestampCollector
	dueDate := tc.parse("due_date", req.DueDate)
	if err := check(tc.violations, ValidateTask(TaskFields{Name: req.Name, Status: req.Status})); err != nil {
		return nil, err
	}

	var resp dto.TaskResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		project, err := s.projectRepo.WithTx(tx).GetByID(projectID)
		if err != nil {
			if isRecordNotFound(err) {
				return missingRef("Project", projectID)
			}
			return storeError("load project", err, "")
		}
		assignee, err := s.resolveAssignee(tx, req.AssigneeID)
		if err != nil {
			return err
		}
		task := models.Task{
			ProjectID:   projectID,
			Name:        req.Name,
			AssigneeID:  req.AssigneeID,
			DueDate:     dueDate,
			Status:      req.Status,
			Description: req.Description,
		}
		if err := s.taskRepo.WithTx(tx).Create(&task); err != nil {
			return storeError("create task", err, "")
		}
		resp = dto.NewTaskResponse(task, project.Name, assignee)
		return nil
	})
	if err != nil {
		return nil, storeError("create task", err, "")
	}
	return &resp, nil
}

// ListByProject returns the tasks of projectID
func (s *TaskService) ListByProject(projectID uint) ([]dto.TaskResponse, error) {
	ok, err := s.projectRepo.Exists(projectID)
	if err != nil {
		return nil, storeError("load project", err, "")
	}
	if !ok {
		return nil, missingRef("Project", projectID)
	}
	return s.List(repository.TaskFilter{ProjectID: &projectID})
}

// List returns tasks matching filter with project and assignee names
func (s *TaskService) List(filter repository.TaskFilter) ([]dto.TaskResponse, error) {
	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, storeError("list tasks", err, "")
	}
	return s.serialize(s.db, tasks)
}

// Get returns one serialized task
func (s *TaskService) Get(id uint) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, lookupError("get task", "Task", err)
	}
	resps, err := s.serialize(s.db, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &resps[0], nil
}

// Update merges the present fields of req into task id
func (s *TaskService) Update(id uint, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	var resp dto.TaskResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		tasks := s.taskRepo.WithTx(tx)
		task, err := tasks.GetByID(id)
		if err != nil {
			return lookupError("load task", "Task", err)
		}

		fields := TaskFields{Name: task.Name, Status: task.Status}
		if req.Name.Set {
			fields.Name = req.Name.Value
		}
		if req.Status.Set {
			fields.Status = req.Status.Value
		}
		var tc timestampCollector
		dueDate, keepDueDate := tc.parseOptional("due_date", req.DueDate)
		if err := check(tc.violations, ValidateTask(fields)); err != nil {
			return err
		}
		if req.AssigneeID.Set {
			assigneeID := optionalID(req.AssigneeID)
			if _, err := s.resolveAssignee(tx, assigneeID); err != nil {
				return err
			}
			task.AssigneeID = assigneeID
		}

		task.Name = fields.Name
		task.Status = fields.Status
		if !keepDueDate {
			task.DueDate = dueDate
		}
		if req.Description.Set {
			task.Description = optionalText(req.Description)
		}
		if err := tasks.Update(task); err != nil {
			return storeError("update task", err, "")
		}

		resps, err := s.serialize(tx, []models.Task{*task})
		if err != nil {
			return err
		}
		resp = resps[0]
		return nil
	})
	if err != nil {
		return nil, storeError("update task", err, "")
	}
	return &resp, nil
}

// Delete removes task id
func (s *TaskService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		tasks := s.taskRepo.WithTx(tx)
		if _, err := tasks.GetByID(id); err != nil {
			return lookupError("load task", "Task", err)
		}
		return tasks.Delete(id)
	})
	return storeError("delete task", err, "")
}

// resolveAssignee loads the user a task is assigned to; nil id means unassigned
func (s *TaskService) resolveAssignee(tx *gorm.DB, assigneeID *uint) (*models.User, error) {
	if assigneeID == nil {
		return nil, nil
	}
	user, err := s.userRepo.WithTx(tx).GetByID(*assigneeID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, missingRef("User", *assigneeID)
		}
		return nil, storeError("load assignee", err, "")
	}
	return user, nil
}

func (s *TaskService) serialize(db *gorm.DB, tasks []models.Task) ([]dto.TaskResponse, error) {
	projectIDs := make([]uint, 0, len(tasks))
	userIDs := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		projectIDs = append(projectIDs, t.ProjectID)
		if t.AssigneeID != nil {
			userIDs = append(userIDs, *t.AssigneeID)
		}
	}
	names, err := s.projectRepo.WithTx(db).NamesByIDs(projectIDs)
	if err != nil {
		return nil, storeError("load project names", err, "")
	}
	users, err := s.userRepo.WithTx(db).GetByIDs(userIDs)
	if err != nil {
		return nil, storeError("load assignees", err, "")
	}

	resps := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		var assignee *models.User
		if t.AssigneeID != nil {
			if u, ok := users[*t.AssigneeID]; ok {
				assignee = &u
			}
		}
		resps = append(resps, dto.NewTaskResponse(t, names[t.ProjectID], assignee))
	}
	return resps, nil
}
