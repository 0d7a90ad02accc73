// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/notify"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves project CRUD and membership management.
type Handler struct {
	DB       *mongo.Database
	Projects *projectstore.Store
	Tasks    *taskstore.Store
	Users    *userstore.Store
	Notify   *notify.Dispatcher
	ErrLog   *apierr.Logger
	Log      *zap.Logger
}

// NewHandler constructs a projects Handler bound to a DB, dispatcher,
// and logger.
func NewHandler(db *mongo.Database, dispatcher *notify.Dispatcher, errLog *apierr.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Projects: projectstore.New(db),
		Tasks:    taskstore.New(db),
		Users:    userstore.New(db),
		Notify:   dispatcher,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// currentUserID resolves the signed-in caller to an ObjectID, writing
// 401 and returning false when there is no usable session.
func (h *Handler) currentUserID(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, primitive.ObjectID, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Unauthorized(w, r)
		return nil, primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, r)
		return nil, primitive.NilObjectID, false
	}
	return user, id, true
}

// projectIDParam parses the {id} URL parameter, writing 404 on a
// malformed value so probing with junk ids looks like a missing project.
func (h *Handler) projectIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, r, "Project not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeList handles GET /api/projects. It returns projects the caller
// owns or belongs to, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.ListForUser(ctx, userID)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: list", err, "Failed to fetch projects")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(projects)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ServeCreate handles POST /api/projects. The caller becomes the owner
// and every other user is told about the new project.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user, userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, r, "Invalid request body")
		return
	}
	if req.Name == "" {
		h.ErrLog.BadRequest(w, r, "Name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, err := h.Projects.Create(ctx, models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: insert", err, "Failed to create project")
		return
	}

	h.Notify.NotifyAllExcept(ctx, userID,
		models.NotifyProjectCreated,
		"New Project Created",
		fmt.Sprintf("%s created project %q", user.Name, project.Name),
		"/dashboard/projects/"+project.ID.Hex())

	h.Log.Info("project created",
		zap.String("project_id", project.ID.Hex()),
		zap.String("owner_id", userID.Hex()))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(project)
}

type detailResponse struct {
	models.Project
	Owner      *models.UserSummary  `json:"owner,omitempty"`
	Members    []models.UserSummary `json:"members"`
	Tasks      []models.TaskView    `json:"tasks"`
	Milestones []models.Milestone   `json:"milestones"`
}

// ServeDetail handles GET /api/projects/{id}.
//
// The response nests owner and member summaries, the project's tasks
// (most recently updated first, with assignee summaries), and its
// milestones in date order. Reads are open to any signed-in user.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.currentUserID(w, r); !ok {
		return
	}
	projectID, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: load", err, "Failed to fetch project")
		return
	}
	if project == nil {
		h.ErrLog.NotFound(w, r, "Project not found")
		return
	}

	resp := detailResponse{
		Project:    *project,
		Members:    []models.UserSummary{},
		Tasks:      []models.TaskView{},
		Milestones: []models.Milestone{},
	}

	// Owner and member summaries in one lookup.
	peopleIDs := append([]primitive.ObjectID{project.OwnerID}, project.MemberIDs...)
	people, err := h.Users.Summaries(ctx, peopleIDs)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: load people", err, "Failed to fetch project")
		return
	}
	byID := make(map[primitive.ObjectID]models.UserSummary, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}
	if o, ok := byID[project.OwnerID]; ok {
		resp.Owner = &o
	}
	for _, id := range project.MemberIDs {
		if m, ok := byID[id]; ok {
			resp.Members = append(resp.Members, m)
		}
	}

	tasks, err := h.Tasks.ListForProject(ctx, projectID)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: load tasks", err, "Failed to fetch project")
		return
	}
	taskPeople := make([]primitive.ObjectID, 0, len(tasks))
	for _, t := range tasks {
		if t.AssigneeID != nil {
			taskPeople = append(taskPeople, *t.AssigneeID)
		}
	}
	assignees, err := h.Users.Summaries(ctx, taskPeople)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: load assignees", err, "Failed to fetch project")
		return
	}
	assigneeByID := make(map[primitive.ObjectID]models.UserSummary, len(assignees))
	for _, a := range assignees {
		assigneeByID[a.ID] = a
	}
	for _, t := range tasks {
		v := models.TaskView{Task: t}
		if t.AssigneeID != nil {
			if a, ok := assigneeByID[*t.AssigneeID]; ok {
				v.Assignee = &a
			}
		}
		resp.Tasks = append(resp.Tasks, v)
	}

	milestones, err := h.Projects.Milestones(ctx, projectID)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: load milestones", err, "Failed to fetch project")
		return
	}
	if milestones != nil {
		resp.Milestones = milestones
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// ServeUpdate handles PUT /api/projects/{id}. Owners and members may
// change the name, description, and status.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, r, "Invalid request body")
		return
	}
	if req.Name != nil && *req.Name == "" {
		h.ErrLog.BadRequest(w, r, "Name is required")
		return
	}
	if req.Status != "" && !models.ValidProjectStatus(req.Status) {
		h.ErrLog.BadRequest(w, r, "Invalid project status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	info, err := projectpolicy.FetchProjectInfo(ctx, h.DB, projectID)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: load for update", err, "Failed to update project")
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

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	if err := h.Projects.Apply(ctx, projectID, projectstore.Update{
		Name:        name,
		Description: req.Description,
		Status:      req.Status,
	}); err != nil {
		h.ErrLog.Internal(w, r, "projects: update", err, "Failed to update project")
		return
	}

	project, err := h.Projects.GetByID(ctx, projectID)
	if err != nil || project == nil {
		h.ErrLog.Internal(w, r, "projects: reload after update", err, "Failed to update project")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(project)
}

// ServeDelete handles DELETE /api/projects/{id}. Owner only; the
// project's tasks and milestones go with it.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	info, err := projectpolicy.FetchProjectInfo(ctx, h.DB, projectID)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: load for delete", err, "Failed to delete project")
		return
	}
	if info == nil {
		h.ErrLog.NotFound(w, r, "Project not found")
		return
	}
	if !projectpolicy.IsOwner(user, info) {
		h.ErrLog.Forbidden(w, r, "Access denied")
		return
	}

	if _, err := h.Projects.Delete(ctx, projectID); err != nil {
		h.ErrLog.Internal(w, r, "projects: delete", err, "Failed to delete project")
		return
	}

	h.Log.Info("project deleted",
		zap.String("project_id", projectID.Hex()),
		zap.String("owner_id", user.ID))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

type addMemberRequest struct {
	UserID string `json:"userId"`
}

// ServeAddMember handles POST /api/projects/{id}/members. Owner only.
// The added user gets a notification pointing at the project.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, r, "Invalid request body")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		h.ErrLog.BadRequest(w, r, "Invalid userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	info, err := projectpolicy.FetchProjectInfo(ctx, h.DB, projectID)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: load for member add", err, "Failed to add member")
		return
	}
	if info == nil {
		h.ErrLog.NotFound(w, r, "Project not found")
		return
	}
	if !projectpolicy.IsOwner(user, info) {
		h.ErrLog.Forbidden(w, r, "Access denied")
		return
	}

	exists, err := h.Users.Exists(ctx, memberID)
	if err != nil {
		h.ErrLog.Internal(w, r, "projects: check member", err, "Failed to add member")
		return
	}
	if !exists {
		h.ErrLog.NotFound(w, r, "User not found")
		return
	}

	if err := h.Projects.AddMember(ctx, projectID, memberID); err != nil {
		h.ErrLog.Internal(w, r, "projects: add member", err, "Failed to add member")
		return
	}

	h.Notify.NotifyOne(ctx, memberID,
		models.NotifySuccess,
		"Added to Project",
		fmt.Sprintf("%s added you to project %q", user.Name, info.Name),
		"/dashboard/projects/"+projectID.Hex())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
