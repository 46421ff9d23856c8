// Package histseries implements a historian series service.
//
// # Architecture
//
// The service is structured into several key packages:
//   - timespec, timestamp: time arguments and the process-wide result timezone
//   - query: enumerations that parameterize retrieval and updates
//   - models: series, summary tables and raw backend values
//   - series: the retrieval contract shared by every series and the operator
//     algebra composing them
//   - source: raw points and asset attributes
//   - database: TimescaleDB historian backing points and attributes
//   - catalog: name resolution and series expressions
//   - api, scheduler: upstream ingest and periodic jobs
//   - grpc: gRPC service implementation
//
// Key Features
//
//   - Retrieval:
//     Recorded values with inside, outside or interpolated boundaries,
//     interpolated values, summaries and filtered summaries.
//
//   - Composition:
//     Series combine with + - * / // % @ and with constants. A composed
//     series is evaluated lazily on every call and never cached.
//
//   - Writes:
//     Values are written with the historian's update and buffer modes.
//
// Example Usage
//
//	client := server.NewSeriesServiceClient(conn)
//	req, _ := structpb.NewStruct(map[string]any{
//	    "method":     "summaries",
//	    "expression": "FIC101.PV * 3.6",
//	    "start":      "*-1d",
//	    "end":        "*",
//	    "interval":   "1h",
//	    "summary":    "average|maximum",
//	})
//	resp, err := client.Query(ctx, req)
//
// For more information about specific packages, see their respective
// documentation.
package histseries
