package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"project-board/dnd"
	"project-board/domain"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, b Board, deduper Deduper, logger *log.Logger) {
	e.GET("/api/projects", getProjects(b))
	e.POST("/api/projects", submitProject(b, deduper, logger))
	e.POST("/api/projects/:id/drag", startDrag(b))

	targets := map[domain.Status]*dnd.DropTarget{
		domain.StatusActive:   dnd.NewDropTarget(b, domain.StatusActive),
		domain.StatusFinished: dnd.NewDropTarget(b, domain.StatusFinished),
	}
	e.GET("/api/lists/:status", getList(b))
	e.POST("/api/lists/:status/dragover", dragOver(targets))
	e.POST("/api/lists/:status/dragleave", dragLeave(targets))
	e.POST("/api/lists/:status/drop", drop(targets))

	registerStreams(e, b, logger)

	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getProjects(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, projectsResponse{Projects: b.Projects()})
	}
}

func getList(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := domain.ParseStatus(c.Param("status"))
		if err != nil {
			return c.String(http.StatusNotFound, "unknown list")
		}
		return c.JSON(http.StatusOK, listResponse{
			Status:   status,
			Projects: renderList(b.Projects(), status),
		})
	}
}

// submitProject is the form submission boundary: three raw field values come
// in, validation gates the mutation, and a validation failure surfaces the
// alert message without touching the store.
func submitProject(b Board, deduper Deduper, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newSubmitMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		title := c.FormValue("title")
		description := c.FormValue("description")
		peopleRaw := strings.TrimSpace(c.FormValue("people"))
		people := 0
		var convErr error
		if peopleRaw != "" {
			people, convErr = strconv.Atoi(peopleRaw)
		}

		validateStart := time.Now()
		ok := convErr == nil && domain.Validate(
			domain.Field{Text: title, Required: true},
			domain.Field{Text: description, Required: true, MinLength: domain.Int(5)},
			domain.Field{Number: people, Numeric: true, Required: true, Min: domain.Int(1), Max: domain.Int(5)},
		)
		metrics.ObserveValidate(time.Since(validateStart))
		if !ok {
			metrics.SetErrorStage("validation")
			err = c.String(http.StatusUnprocessableEntity, invalidInputsMessage)
			return err
		}

		if key := strings.TrimSpace(c.Request().Header.Get(idempotencyKeyHeader)); key != "" && deduper != nil {
			fresh, dedupeErr := deduper.Add(ctx, key)
			if dedupeErr != nil {
				// Dedupe is best effort; a broken Redis never blocks a submission.
				logger.WithField("key", key).Warnf("dedupe check failed: %v", dedupeErr)
			} else if !fresh {
				metrics.SetDuplicate(true)
				err = c.JSON(http.StatusOK, submitResponse{Duplicate: true})
				return err
			}
		}

		addStart := time.Now()
		p := b.Add(title, description, people)
		metrics.ObserveAdd(time.Since(addStart))
		metrics.SetProjectID(p.ID)

		err = c.JSON(http.StatusCreated, submitResponse{Project: &p})
		return err
	}
}

// startDrag begins a gesture on a rendered item: the response body is the
// transfer payload the client carries until drop.
func startDrag(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		for _, p := range b.Projects() {
			if p.ID != id {
				continue
			}
			pl := dnd.NewPayload()
			dnd.StartDrag(p, pl)
			c.Response().Header().Set(dragEffectHeader, pl.Effect())
			return c.String(http.StatusOK, pl.Data(dnd.MediaTypeText))
		}
		return c.String(http.StatusNotFound, "unknown project")
	}
}

func dragOver(targets map[domain.Status]*dnd.DropTarget) echo.HandlerFunc {
	return func(c echo.Context) error {
		t := targetFor(targets, c)
		if t == nil {
			return c.String(http.StatusNotFound, "unknown list")
		}
		pl := dnd.NewPayload()
		if mt := c.Request().Header.Get(echo.HeaderContentType); mt != "" {
			pl.SetData(mt, "")
		}
		if !t.DragOver(pl) {
			return c.NoContent(http.StatusUnsupportedMediaType)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func dragLeave(targets map[domain.Status]*dnd.DropTarget) echo.HandlerFunc {
	return func(c echo.Context) error {
		t := targetFor(targets, c)
		if t == nil {
			return c.String(http.StatusNotFound, "unknown list")
		}
		t.DragLeave()
		return c.NoContent(http.StatusNoContent)
	}
}

func drop(targets map[domain.Status]*dnd.DropTarget) echo.HandlerFunc {
	return func(c echo.Context) error {
		t := targetFor(targets, c)
		if t == nil {
			return c.String(http.StatusNotFound, "unknown list")
		}
		if mediaType(c.Request().Header.Get(echo.HeaderContentType)) != dnd.MediaTypeText {
			return c.NoContent(http.StatusUnsupportedMediaType)
		}
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, dropMaxSize))
		if err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		pl := dnd.NewPayload()
		pl.SetData(dnd.MediaTypeText, strings.TrimSpace(string(body)))
		t.Drop(pl)
		return c.NoContent(http.StatusNoContent)
	}
}

func targetFor(targets map[domain.Status]*dnd.DropTarget, c echo.Context) *dnd.DropTarget {
	status, err := domain.ParseStatus(c.Param("status"))
	if err != nil {
		return nil
	}
	return targets[status]
}

func mediaType(header string) string {
	if i := strings.IndexByte(header, ';'); i >= 0 {
		header = header[:i]
	}
	return strings.ToLower(strings.TrimSpace(header))
}
