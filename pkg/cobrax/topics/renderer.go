package topics

// Renderer formats topic content for the terminal. ext is the topic's file
// extension, including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer returns content unchanged.
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, _ string) string {
	return content
}
