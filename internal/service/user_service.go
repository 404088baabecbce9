package service

import (
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"

	"gorm.io/gorm"
)

const emailInUseMsg = "Email address already in use by another account"

// UserService profile and account administration
type UserService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	teamRepo     *repository.TeamRepository
	taskRepo     *repository.TaskRepository
	feedbackRepo *repository.FeedbackRepository
}

// NewUserService creates a UserService over db
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		teamRepo:     repository.NewTeamRepository(db),
		taskRepo:     repository.NewTaskRepository(db),
		feedbackRepo: repository.NewFeedbackRepository(db),
	}
}

// GetUser loads a user record
func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, lookupError("get user", "User", err)
	}
	return user, nil
}

// Profile returns the full view of user id
func (s *UserService) Profile(id uint) (*dto.UserProfile, error) {
	return s.profile(s.db, id)
}

// UpdateProfile merges name, email and role into user id
func (s *UserService) UpdateProfile(id uint, req *dto.UpdateProfileRequest) (*dto.UserProfile, error) {
	var resp *dto.UserProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		user, err := users.GetByID(id)
		if err != nil {
			return lookupError("load user", "User", err)
		}

		fields := UserFields{Username: user.Username, Email: user.Email, Name: user.Name, Role: user.Role}
		if req.Name.Set {
			fields.Name = req.Name.Value
		}
		if req.Email.Set {
			fields.Email = req.Email.Value
		}
		if req.Role.Set {
			fields.Role = req.Role.Value
		}
		if err := check(nil, ValidateUser(fields)); err != nil {
			return err
		}
		if fields.Email != user.Email {
			taken, err := users.ExistsByEmail(fields.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return &ConflictError{Message: emailInUseMsg}
			}
		}

		user.Name = fields.Name
		user.Email = fields.Email
		user.Role = fields.Role
		if err := users.Update(user); err != nil {
			return err
		}
		resp, err = s.profile(tx, id)
		return err
	})
	if err != nil {
		return nil, storeError("update profile", err, emailInUseMsg)
	}
	return resp, nil
}

// List returns summaries of every user
func (s *UserService) List() ([]dto.UserSummary, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, storeError("list users", err, "")
	}
	resps := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		resps = append(resps, dto.NewUserSummary(u))
	}
	return resps, nil
}

// Get returns the summary of user id
func (s *UserService) Get(id uint) (*dto.UserSummary, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserSummary(*user)
	return &resp, nil
}

// Delete removes user id. Task assignments and feedback authorship are
// cleared and team memberships dropped in the same transaction.
func (s *UserService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		ok, err := users.Exists(id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("User")
		}
		if err := s.taskRepo.WithTx(tx).ClearAssignee(id); err != nil {
			return err
		}
		if err := s.feedbackRepo.WithTx(tx).ClearUser(id); err != nil {
			return err
		}
		if err := s.teamRepo.WithTx(tx).RemoveUserFromAll(id); err != nil {
			return err
		}
		return users.Delete(id)
	})
	return storeError("delete user", err, "")
}

func (s *UserService) profile(db *gorm.DB, id uint) (*dto.UserProfile, error) {
	user, err := s.userRepo.WithTx(db).GetByID(id)
	if err != nil {
		return nil, lookupError("get user", "User", err)
	}
	teamIDs, err := s.teamRepo.WithTx(db).TeamIDsByUser(id)
	if err != nil {
		return nil, storeError("load user teams", err, "")
	}
	assigned, err := s.taskRepo.WithTx(db).CountByAssignee(id)
	if err != nil {
		return nil, storeError("count assigned tasks", err, "")
	}
	resp := dto.NewUserProfile(user, teamIDs, assigned)
	return &resp, nil
}
