package platform

type unsupportedManager struct{}

func newUnsupportedManager() Manager {
	return &unsupportedManager{}
}

func (m *unsupportedManager) GetFontPaths() (FontPaths, error) {
	return FontPaths{}, ErrUnsupported
}

func (m *unsupportedManager) UpdateFontCache() error {
	return ErrUnsupported
}

func (m *unsupportedManager) RegisterFont(string, string) error {
	return ErrUnsupported
}

func (m *unsupportedManager) UnregisterFont(string) error {
	return ErrUnsupported
}
