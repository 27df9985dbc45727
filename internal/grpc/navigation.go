package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const navigationServiceName = "wiki.v1.NavigationService"

// Full method names
const (
	GetSequenceMethod     = "/" + navigationServiceName + "/GetSequence"
	ReplaceSequenceMethod = "/" + navigationServiceName + "/ReplaceSequence"
	GetNeighborsMethod    = "/" + navigationServiceName + "/GetNeighbors"
)

type GetSequenceRequest struct {
	JournalID uint `json:"journal_id"`
}

type ReplaceSequenceRequest struct {
	JournalID  uint   `json:"journal_id"`
	ArticleIDs []uint `json:"article_ids"`
}

type SequenceResponse struct {
	ArticleIDs []uint `json:"article_ids"`
}

type GetNeighborsRequest struct {
	ArticleID uint `json:"article_id"`
}

type NeighborsResponse struct {
	PrevArticleID *uint `json:"prev_article_id"`
	NextArticleID *uint `json:"next_article_id"`
}

// NavigationServiceServer is the server API for wiki.v1.NavigationService.
type NavigationServiceServer interface {
	GetSequence(context.Context, *GetSequenceRequest) (*SequenceResponse, error)
	ReplaceSequence(context.Context, *ReplaceSequenceRequest) (*SequenceResponse, error)
	GetNeighbors(context.Context, *GetNeighborsRequest) (*NeighborsResponse, error)
}

// RegisterNavigationServiceServer registers srv on s.
func RegisterNavigationServiceServer(s grpc.ServiceRegistrar, srv NavigationServiceServer) {
	s.RegisterService(&navigationServiceDesc, srv)
}

var navigationServiceDesc = grpc.ServiceDesc{
	ServiceName: navigationServiceName,
	HandlerType: (*NavigationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSequence", Handler: getSequenceHandler},
		{MethodName: "ReplaceSequence", Handler: replaceSequenceHandler},
		{MethodName: "GetNeighbors", Handler: getNeighborsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wiki/v1/navigation.json",
}

func getSequenceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSequenceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NavigationServiceServer).GetSequence(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetSequenceMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NavigationServiceServer).GetSequence(ctx, req.(*GetSequenceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func replaceSequenceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReplaceSequenceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NavigationServiceServer).ReplaceSequence(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReplaceSequenceMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NavigationServiceServer).ReplaceSequence(ctx, req.(*ReplaceSequenceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getNeighborsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetNeighborsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NavigationServiceServer).GetNeighbors(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetNeighborsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NavigationServiceServer).GetNeighbors(ctx, req.(*GetNeighborsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// NavigationServiceClient calls wiki.v1.NavigationService over the JSON codec.
type NavigationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNavigationServiceClient(cc grpc.ClientConnInterface) *NavigationServiceClient {
	return &NavigationServiceClient{cc: cc}
}

func (c *NavigationServiceClient) GetSequence(ctx context.Context, in *GetSequenceRequest, opts ...grpc.CallOption) (*SequenceResponse, error) {
	out := new(SequenceResponse)
	if err := c.cc.Invoke(ctx, GetSequenceMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *NavigationServiceClient) ReplaceSequence(ctx context.Context, in *ReplaceSequenceRequest, opts ...grpc.CallOption) (*SequenceResponse, error) {
	out := new(SequenceResponse)
	if err := c.cc.Invoke(ctx, ReplaceSequenceMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *NavigationServiceClient) GetNeighbors(ctx context.Context, in *GetNeighborsRequest, opts ...grpc.CallOption) (*NeighborsResponse, error) {
	out := new(NeighborsResponse)
	if err := c.cc.Invoke(ctx, GetNeighborsMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
