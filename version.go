package elmkit

// Version is the library version. Overridable at build time:
//
//	go build -ldflags "-X github.com/haowjy/elmkit-go.Version=v1.2.3"
var Version = "dev"
