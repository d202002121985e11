package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/homefinder/loancalc/internal/application/dto"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "loancalc.v1.CalculatorService"

// Full method names, as seen by interceptors.
const (
	MethodCalculateEMI     = "/" + ServiceName + "/CalculateEMI"
	MethodCheckEligibility = "/" + ServiceName + "/CheckEligibility"
	MethodGetCalculation   = "/" + ServiceName + "/GetCalculation"
	MethodListCalculations = "/" + ServiceName + "/ListCalculations"
)

// CalculatorServiceServer is the server API for CalculatorService. Messages
// are the application DTOs, encoded by the JSON codec.
type CalculatorServiceServer interface {
	CalculateEMI(context.Context, *dto.CalculateEMIRequest) (*dto.EMIResponse, error)
	CheckEligibility(context.Context, *dto.CheckEligibilityRequest) (*dto.EligibilityResponse, error)
	GetCalculation(context.Context, *dto.GetCalculationRequest) (*dto.CalculationResponse, error)
	ListCalculations(context.Context, *dto.ListCalculationsRequest) (*dto.CalculationListResponse, error)
	mustEmbedUnimplementedCalculatorServiceServer()
}

// UnimplementedCalculatorServiceServer provides forward-compatible default implementations.
type UnimplementedCalculatorServiceServer struct{}

func (UnimplementedCalculatorServiceServer) CalculateEMI(context.Context, *dto.CalculateEMIRequest) (*dto.EMIResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CalculateEMI not implemented")
}
func (UnimplementedCalculatorServiceServer) CheckEligibility(context.Context, *dto.CheckEligibilityRequest) (*dto.EligibilityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CheckEligibility not implemented")
}
func (UnimplementedCalculatorServiceServer) GetCalculation(context.Context, *dto.GetCalculationRequest) (*dto.CalculationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCalculation not implemented")
}
func (UnimplementedCalculatorServiceServer) ListCalculations(context.Context, *dto.ListCalculationsRequest) (*dto.CalculationListResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCalculations not implemented")
}
func (UnimplementedCalculatorServiceServer) mustEmbedUnimplementedCalculatorServiceServer() {}

// RegisterCalculatorServiceServer registers srv with the gRPC server.
func RegisterCalculatorServiceServer(s grpclib.ServiceRegistrar, srv CalculatorServiceServer) {
	s.RegisterService(&calculatorServiceDesc, srv)
}

var calculatorServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CalculateEMI", Handler: unaryHandler(MethodCalculateEMI, CalculatorServiceServer.CalculateEMI)},
		{MethodName: "CheckEligibility", Handler: unaryHandler(MethodCheckEligibility, CalculatorServiceServer.CheckEligibility)},
		{MethodName: "GetCalculation", Handler: unaryHandler(MethodGetCalculation, CalculatorServiceServer.GetCalculation)},
		{MethodName: "ListCalculations", Handler: unaryHandler(MethodListCalculations, CalculatorServiceServer.ListCalculations)},
	},
	Streams: []grpclib.StreamDesc{},
}

// unaryHandler builds the method handler generated code would emit for one
// unary call.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(CalculatorServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalculatorServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CalculatorServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
