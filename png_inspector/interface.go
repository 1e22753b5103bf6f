package png_inspector

type Inspector interface {
	Info() (*ImageInfo, error)
}
