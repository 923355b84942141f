package rpc

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"ideaforge/internal/gateway/middleware"
	"ideaforge/internal/gateway/service/credits"
	"ideaforge/internal/gateway/service/generation"
	"ideaforge/internal/pipeline"
)

const (
	IdeaServiceName = "ideaforge.v1.IdeaService"

	IdeaServiceGenerateProcedure    = "/" + IdeaServiceName + "/Generate"
	IdeaServiceListMethodsProcedure = "/" + IdeaServiceName + "/ListMethods"
)

type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	Method   string `json:"method"`
	Language string `json:"language"`
}

type GenerateResponse struct {
	generation.Response
}

type ListMethodsRequest struct{}

type ListMethodsResponse struct {
	Methods []generation.MethodInfo `json:"methods"`
}

type IdeaHandler struct {
	svc *generation.Service
}

func NewIdeaHandler(svc *generation.Service) *IdeaHandler {
	return &IdeaHandler{svc: svc}
}

func (h *IdeaHandler) Generate(ctx context.Context, req *connect.Request[GenerateRequest]) (*connect.Response[GenerateResponse], error) {
	u, ok := middleware.UserFrom(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("no caller on request"))
	}
	resp, err := h.svc.Generate(ctx, generation.Request{
		UserID:   u.ID,
		Prompt:   req.Msg.Prompt,
		Method:   pipeline.MethodID(req.Msg.Method),
		Language: req.Msg.Language,
	}, nil)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GenerateResponse{Response: resp}), nil
}

func (h *IdeaHandler) ListMethods(_ context.Context, _ *connect.Request[ListMethodsRequest]) (*connect.Response[ListMethodsResponse], error) {
	return connect.NewResponse(&ListMethodsResponse{Methods: h.svc.Methods()}), nil
}

// NewIdeaServiceHandler mounts the service the way generated connect code
// does, returning the path prefix and handler.
func NewIdeaServiceHandler(h *IdeaHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	generate := connect.NewUnaryHandler(IdeaServiceGenerateProcedure, h.Generate, opts...)
	listMethods := connect.NewUnaryHandler(IdeaServiceListMethodsProcedure, h.ListMethods, opts...)
	return "/" + IdeaServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case IdeaServiceGenerateProcedure:
			generate.ServeHTTP(w, r)
		case IdeaServiceListMethodsProcedure:
			listMethods.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewIdeaServiceClient builds typed clients for both procedures.
func NewIdeaServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *IdeaServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &IdeaServiceClient{
		generate:    connect.NewClient[GenerateRequest, GenerateResponse](httpClient, baseURL+IdeaServiceGenerateProcedure, opts...),
		listMethods: connect.NewClient[ListMethodsRequest, ListMethodsResponse](httpClient, baseURL+IdeaServiceListMethodsProcedure, opts...),
	}
}

type IdeaServiceClient struct {
	generate    *connect.Client[GenerateRequest, GenerateResponse]
	listMethods *connect.Client[ListMethodsRequest, ListMethodsResponse]
}

func (c *IdeaServiceClient) Generate(ctx context.Context, req *connect.Request[GenerateRequest]) (*connect.Response[GenerateResponse], error) {
	return c.generate.CallUnary(ctx, req)
}

func (c *IdeaServiceClient) ListMethods(ctx context.Context, req *connect.Request[ListMethodsRequest]) (*connect.Response[ListMethodsResponse], error) {
	return c.listMethods.CallUnary(ctx, req)
}

func toConnectError(err error) error {
	var (
		cfgErr  *pipeline.ConfigurationError
		pipeErr *pipeline.PipelineError
	)
	switch {
	case errors.As(err, &cfgErr):
		return connect.NewError(connect.CodeInvalidArgument, cfgErr.Err)
	case errors.Is(err, credits.ErrInsufficient):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case generation.IsTimeout(err):
		return connect.NewError(connect.CodeDeadlineExceeded, errors.New("generation timed out"))
	case errors.As(err, &pipeErr):
		return connect.NewError(connect.CodeUnavailable, errors.New("generation failed, please try again"))
	}
	return connect.NewError(connect.CodeInternal, err)
}
