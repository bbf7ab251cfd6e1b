package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type NoteService interface {
	GetNotes(ctx context.Context, actor *entity.Identity) ([]*contract.NoteResponse, apierror.ErrorResponse)
	GetNoteByID(ctx context.Context, actor *entity.Identity, noteID string) (*contract.NoteResponse, apierror.ErrorResponse)
	CreateNote(ctx context.Context, actor *entity.Identity, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	UpdateNote(ctx context.Context, actor *entity.Identity, noteID string, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	DeleteNote(ctx context.Context, actor *entity.Identity, noteID string) apierror.ErrorResponse
}

type DefaultNoteRoute struct {
	NoteService NoteService
}

func NewNoteDefault(noteService NoteService) *DefaultNoteRoute {
	return &DefaultNoteRoute{NoteService: noteService}
}

func (n *DefaultNoteRoute) GetNotes(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	notes, apierr := n.NoteService.GetNotes(c.Request().Context(), identity)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notes": notes}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultNoteRoute) GetNote(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	note, apierr := n.NoteService.GetNoteByID(c.Request().Context(), identity, strings.TrimSpace(c.Param("id")))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"note": note})
}

func (n *DefaultNoteRoute) CreateNote(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.NoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	note, apierr := n.NoteService.CreateNote(c.Request().Context(), identity, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"note": note})
}

func (n *DefaultNoteRoute) UpdateNote(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.NoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	note, apierr := n.NoteService.UpdateNote(c.Request().Context(), identity, strings.TrimSpace(c.Param("id")), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"note": note})
}

func (n *DefaultNoteRoute) DeleteNote(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	serr := n.NoteService.DeleteNote(c.Request().Context(), identity, strings.TrimSpace(c.Param("id")))
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted successfully"})
}
