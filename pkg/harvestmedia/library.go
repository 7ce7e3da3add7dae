package harvestmedia

import "context"

// LibraryService provides library operations.
type LibraryService struct {
	client *Client
}

const methodGetLibraries = "getlibraries"

// List returns every library available to the API key, in the order the
// service lists them.
//
// Example:
//
//	libs, err := client.Libraries().List(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, l := range libs {
//	    fmt.Println(l.ID, l.Name)
//	}
func (s *LibraryService) List(ctx context.Context) ([]Library, error) {
	root, err := s.client.call(ctx, methodGetLibraries, nil, rootLibraries)
	if err != nil {
		return nil, err
	}
	return librariesFromRoot(root)
}
