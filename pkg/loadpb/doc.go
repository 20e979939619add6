// Package loadpb holds the LoadService wire contract generated from load.proto.
package loadpb

//go:generate protoc --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative load.proto
