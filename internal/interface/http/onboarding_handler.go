package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/pkg/response"
)

type OnboardingHandler struct {
	Svc    *application.OnboardingService
	Logger *logrus.Logger
}

func NewOnboardingHandler(svc *application.OnboardingService, logger *logrus.Logger) *OnboardingHandler {
	return &OnboardingHandler{Svc: svc, Logger: logger}
}

// profileView is a profile as shown to the client; the password is never echoed.
type profileView struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	PasswordSet    bool              `json:"passwordSet"`
	HouseholdSize  int               `json:"householdSize"`
	Children       int               `json:"children"`
	SchoolNeeds    []string          `json:"schoolNeeds"`
	Income         int               `json:"income"`
	Education      string            `json:"education"`
	Priorities     entity.Priorities `json:"priorities"`
	PriorityLabels map[string]string `json:"priorityLabels"`
	Gender         string            `json:"gender"`
	Ethnicity      string            `json:"ethnicity"`
}

func newProfileView(p entity.Profile) profileView {
	needs := p.SchoolNeeds
	if needs == nil {
		needs = []string{}
	}
	return profileView{
		Name:           p.Name,
		Email:          p.Email,
		PasswordSet:    p.Password != "",
		HouseholdSize:  p.HouseholdSize,
		Children:       p.Children,
		SchoolNeeds:    needs,
		Income:         p.Income,
		Education:      p.Education,
		Priorities:     p.Priorities,
		PriorityLabels: p.Priorities.Labels(),
		Gender:         p.Gender,
		Ethnicity:      p.Ethnicity,
	}
}

type stepperState struct {
	Value        int  `json:"value"`
	Min          int  `json:"min"`
	Max          int  `json:"max"`
	Step         int  `json:"step"`
	CanIncrement bool `json:"canIncrement"`
	CanDecrement bool `json:"canDecrement"`
}

func newStepperState(s entity.Stepper, v int) stepperState {
	return stepperState{
		Value: v, Min: s.Min, Max: s.Max, Step: s.Step,
		CanIncrement: s.CanIncrement(v), CanDecrement: s.CanDecrement(v),
	}
}

type wizardView struct {
	ID         string                  `json:"id"`
	Step       int                     `json:"step"`
	StepName   string                  `json:"stepName"`
	TotalSteps int                     `json:"totalSteps"`
	Progress   int                     `json:"progress"`
	CanGoBack  bool                    `json:"canGoBack"`
	Draft      profileView             `json:"draft"`
	Steppers   map[string]stepperState `json:"steppers"`
}

func newWizardView(w *entity.Wizard) wizardView {
	return wizardView{
		ID:         w.ID,
		Step:       int(w.Step),
		StepName:   w.Step.String(),
		TotalSteps: entity.TotalWizardSteps,
		Progress:   w.Progress(),
		CanGoBack:  w.Step > entity.StepAccount && !w.Completed(),
		Draft:      newProfileView(w.Draft),
		Steppers: map[string]stepperState{
			"householdSize": newStepperState(entity.HouseholdSizeStepper(), w.Draft.HouseholdSize),
			"children":      newStepperState(entity.ChildrenStepper(), w.Draft.Children),
			"income":        newStepperState(entity.IncomeStepper(), w.Draft.Income),
		},
	}
}

// Options lists the selectable values and numeric bounds of every field.
func (h *OnboardingHandler) Options(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"schoolNeeds": entity.SchoolNeedOptions,
		"education":   entity.EducationOptions,
		"gender":      entity.GenderOptions,
		"ethnicity":   entity.EthnicityOptions,
		"priorities":  entity.PriorityKeys,
		"bounds": gin.H{
			"householdSize": entity.HouseholdSizeStepper(),
			"children":      entity.ChildrenStepper(),
			"income":        entity.IncomeStepper(),
			"priority":      entity.Stepper{Min: entity.MinPriority, Max: entity.MaxPriority, Step: 1},
		},
	}, "ok", nil)
}

func (h *OnboardingHandler) Start(c *gin.Context) {
	w, err := h.Svc.Start(c.Request.Context(), owner(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, newWizardView(w), "onboarding started", nil)
}

func (h *OnboardingHandler) Get(c *gin.Context) {
	w, err := h.Svc.Get(c.Request.Context(), c.Param("id"), owner(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newWizardView(w), "ok", nil)
}

func (h *OnboardingHandler) Update(c *gin.Context) {
	var patch application.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.Svc.Update(c.Request.Context(), c.Param("id"), owner(c), patch)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newWizardView(w), "draft updated", nil)
}

type adjustRequest struct {
	Field  string `json:"field" binding:"required"`
	Action string `json:"action" binding:"required,oneof=increment decrement set"`
	Value  int    `json:"value"`
}

func (h *OnboardingHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.Svc.Adjust(c.Request.Context(), c.Param("id"), owner(c), req.Field, req.Action, req.Value)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newWizardView(w), "draft updated", nil)
}

type schoolNeedRequest struct {
	Need string `json:"need" binding:"required"`
}

func (h *OnboardingHandler) ToggleSchoolNeed(c *gin.Context) {
	var req schoolNeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.Svc.ToggleSchoolNeed(c.Request.Context(), c.Param("id"), owner(c), req.Need)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newWizardView(w), "draft updated", nil)
}

func (h *OnboardingHandler) Next(c *gin.Context) {
	tr, err := h.Svc.Next(c.Request.Context(), c.Param("id"), owner(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.writeTransition(c, tr)
}

func (h *OnboardingHandler) Back(c *gin.Context) {
	tr, err := h.Svc.Back(c.Request.Context(), c.Param("id"), owner(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.writeTransition(c, tr)
}

func (h *OnboardingHandler) writeTransition(c *gin.Context, tr *application.Transition) {
	var notes []entity.Notification
	msg := "ok"
	if tr.Notification != nil {
		notes = append(notes, *tr.Notification)
		msg = tr.Notification.Message
	}
	response.Success(c, http.StatusOK, newWizardView(tr.Wizard), msg, nil,
		response.WithNotifications(notes),
		response.WithRedirect(tr.Redirect))
}
