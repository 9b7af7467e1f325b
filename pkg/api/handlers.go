package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/filemanager/pkg/binder"
	"github.com/dmitrymomot/filemanager/pkg/files"
	"github.com/dmitrymomot/filemanager/pkg/handler"
	"github.com/dmitrymomot/filemanager/pkg/logger"
)

var (
	errNotFoundRoute    = handler.ErrNotFound
	errMethodNotAllowed = handler.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed")
)

type uploadRequest struct {
	Name     string          `json:"name"`
	Type     files.Kind      `json:"type"`
	ParentID files.ParentRef `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

type listRequest struct {
	ParentID string `query:"parentId"`
	Page     string `query:"page"`
}

type fileRequest struct {
	ID string `path:"id"`
}

type dataRequest struct {
	ID   string `path:"id"`
	Size string `query:"size"`
}

func (a *API) wrapOptions(binders ...handler.Bind) []handler.WrapOption {
	return []handler.WrapOption{
		handler.WithBinders(binders...),
		handler.WithErrorMapper(mapError),
		handler.WithLogger(a.logger),
	}
}

func (a *API) upload() http.HandlerFunc {
	return handler.Wrap[uploadRequest](func(ctx handler.Context, req uploadRequest) handler.Response {
		node, err := a.files.Upload(ctx, files.UploadInput{
			OwnerID:  currentUser(ctx),
			Name:     req.Name,
			Kind:     req.Type,
			ParentID: string(req.ParentID),
			IsPublic: req.IsPublic,
			Data:     req.Data,
		})
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(node, handler.WithStatus(http.StatusCreated))
	}, a.wrapOptions(binder.JSON(binder.WithMaxSize(a.cfg.MaxBodySize)))...)
}

func (a *API) list() http.HandlerFunc {
	return handler.Wrap[listRequest](func(ctx handler.Context, req listRequest) handler.Response {
		page, err := strconv.Atoi(req.Page)
		if err != nil {
			page = 0
		}
		result, err := a.files.List(ctx, currentUser(ctx), req.ParentID, page)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(result.Items, handler.WithTotalCount(result.Total))
	}, a.wrapOptions(binder.Query())...)
}

func (a *API) show() http.HandlerFunc {
	return handler.Wrap[fileRequest](func(ctx handler.Context, req fileRequest) handler.Response {
		node, err := a.files.Show(ctx, currentUser(ctx), req.ID)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(node)
	}, a.wrapOptions(binder.Path(chi.URLParam))...)
}

func (a *API) publish(isPublic bool) http.HandlerFunc {
	return handler.Wrap[fileRequest](func(ctx handler.Context, req fileRequest) handler.Response {
		node, err := a.files.SetVisibility(ctx, currentUser(ctx), req.ID, isPublic)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(node)
	}, a.wrapOptions(binder.Path(chi.URLParam))...)
}

func (a *API) data() http.HandlerFunc {
	return handler.Wrap[dataRequest](func(ctx handler.Context, req dataRequest) handler.Response {
		content, err := a.files.Fetch(ctx, files.FetchInput{
			RequesterID: currentUser(ctx),
			FileID:      req.ID,
			Size:        req.Size,
		})
		if err != nil {
			return handler.Error(err)
		}
		a.logger.DebugContext(ctx, "serving content", logger.FileID(req.ID), logger.FileName(content.Name))
		return handler.Bytes(content.Data, content.ContentType)
	}, a.wrapOptions(binder.Path(chi.URLParam), binder.Query())...)
}

func writeError(w http.ResponseWriter, r *http.Request, e handler.HTTPError) {
	_ = handler.JSONError(e).Render(w, r)
}
