// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/notify"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves task listing and creation.
type Handler struct {
	DB       *mongo.Database
	Tasks    *taskstore.Store
	Projects *projectstore.Store
	Users    *userstore.Store
	Notify   *notify.Dispatcher
	ErrLog   *apierr.Logger
	Log      *zap.Logger
}

// NewHandler constructs a tasks Handler bound to a DB, dispatcher, and
// logger.
func NewHandler(db *mongo.Database, dispatcher *notify.Dispatcher, errLog *apierr.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Tasks:    taskstore.New(db),
		Projects: projectstore.New(db),
		Users:    userstore.New(db),
		Notify:   dispatcher,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// ServeList handles GET /api/tasks with an optional projectId filter.
//
// Tasks are returned newest first with {id, name} projections for the
// project, assignee, and creator. Reads are open to any signed-in user;
// only task creation checks project membership.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); !ok {
		h.ErrLog.Unauthorized(w, r)
		return
	}

	var projectID *primitive.ObjectID
	if raw := query.Get(r, "projectId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.ErrLog.BadRequest(w, r, "Invalid projectId")
			return
		}
		projectID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Tasks.List(ctx, projectID)
	if err != nil {
		h.ErrLog.Internal(w, r, "tasks: list", err, "Failed to fetch tasks")
		return
	}

	views, err := h.buildViews(ctx, tasks)
	if err != nil {
		h.ErrLog.Internal(w, r, "tasks: load projections", err, "Failed to fetch tasks")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

// buildViews attaches project/assignee/creator summaries to each task
// with one batched lookup per collection.
func (h *Handler) buildViews(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	projectIDs := make([]primitive.ObjectID, 0, len(tasks))
	userIDs := make([]primitive.ObjectID, 0, len(tasks)*2)
	seenProject := map[primitive.ObjectID]bool{}
	seenUser := map[primitive.ObjectID]bool{}

	for _, t := range tasks {
		if !seenProject[t.ProjectID] {
			seenProject[t.ProjectID] = true
			projectIDs = append(projectIDs, t.ProjectID)
		}
		if !seenUser[t.CreatorID] {
			seenUser[t.CreatorID] = true
			userIDs = append(userIDs, t.CreatorID)
		}
		if t.AssigneeID != nil && !seenUser[*t.AssigneeID] {
			seenUser[*t.AssigneeID] = true
			userIDs = append(userIDs, *t.AssigneeID)
		}
	}

	projectSums, err := h.Projects.Summaries(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	userSums, err := h.Users.Summaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	projectByID := make(map[primitive.ObjectID]models.ProjectSummary, len(projectSums))
	for _, p := range projectSums {
		projectByID[p.ID] = p
	}
	userByID := make(map[primitive.ObjectID]models.UserSummary, len(userSums))
	for _, u := range userSums {
		userByID[u.ID] = u
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		v := models.TaskView{Task: t}
		if p, ok := projectByID[t.ProjectID]; ok {
			v.Project = &p
		}
		if u, ok := userByID[t.CreatorID]; ok {
			v.Creator = &u
		}
		if t.AssigneeID != nil {
			if u, ok := userByID[*t.AssigneeID]; ok {
				v.Assignee = &u
			}
		}
		views = append(views, v)
	}
	return views, nil
}

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   string     `json:"projectId"`
	AssigneeID  string     `json:"assigneeId"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"startDate"`
	DueDate     *time.Time `json:"dueDate"`
}

// ServeCreate handles POST /api/tasks.
//
// The caller must own or be a member of the target project. On success
// the assignee is notified when they are not the creator, and every
// other user learns about the new task. Notification failures never
// affect the response.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Unauthorized(w, r)
		return
	}
	creatorID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, r)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, r, "Invalid request body")
		return
	}

	if req.Title == "" || req.ProjectID == "" {
		h.ErrLog.BadRequest(w, r, "Title and project are required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		h.ErrLog.BadRequest(w, r, "Title and project are required")
		return
	}
	if req.Status != "" && !models.ValidTaskStatus(req.Status) {
		h.ErrLog.BadRequest(w, r, "Invalid task status")
		return
	}
	if req.Priority != "" && !models.ValidTaskPriority(req.Priority) {
		h.ErrLog.BadRequest(w, r, "Invalid task priority")
		return
	}

	var assigneeID *primitive.ObjectID
	if req.AssigneeID != "" {
		id, err := primitive.ObjectIDFromHex(req.AssigneeID)
		if err != nil {
			h.ErrLog.BadRequest(w, r, "Invalid assigneeId")
			return
		}
		assigneeID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	info, err := projectpolicy.FetchProjectInfo(ctx, h.DB, projectID)
	if err != nil {
		h.ErrLog.Internal(w, r, "tasks: load project", err, "Failed to create task")
		return
	}
	if info == nil {
		h.ErrLog.NotFound(w, r, "Project not found")
		return
	}
	if !projectpolicy.CanWrite(user, info) {
		h.ErrLog.Forbidden(w, r, "Access denied")
		return
	}

	task, err := h.Tasks.Create(ctx, models.Task{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   projectID,
		CreatorID:   creatorID,
		AssigneeID:  assigneeID,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.ErrLog.Internal(w, r, "tasks: insert", err, "Failed to create task")
		return
	}

	link := fmt.Sprintf("/dashboard/projects/%s?task=%s", projectID.Hex(), task.ID.Hex())

	if task.AssigneeID != nil && *task.AssigneeID != creatorID {
		h.Notify.NotifyOne(ctx, *task.AssigneeID,
			models.NotifyTaskAssigned,
			"New Task Assigned",
			fmt.Sprintf("You have been assigned to task %q", task.Title),
			link)
	}
	h.Notify.NotifyAllExcept(ctx, creatorID,
		models.NotifyTaskCreated,
		"New Task Created",
		fmt.Sprintf("%s created task %q in %s", user.Name, task.Title, info.Name),
		link)

	views, err := h.buildViews(ctx, []models.Task{task})
	if err != nil || len(views) != 1 {
		// The task exists; fall back to the bare record.
		views = []models.TaskView{{Task: task}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(views[0])
}
