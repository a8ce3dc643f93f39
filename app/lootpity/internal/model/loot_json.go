package model

// 以下类型在 JSON 编解码时保留未声明字段，其余字段由 plain 类型按 tag 处理

func (c *StaticContainer) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	type plain StaticContainer
	extra, err := splitExtra(data, (*plain)(c))
	if err != nil {
		return err
	}
	c.Extra = extra
	return nil
}

func (c StaticContainer) MarshalJSON() ([]byte, error) {
	type plain StaticContainer
	return joinExtra(plain(c), c.Extra)
}

func (l *Location) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	type plain Location
	extra, err := splitExtra(data, (*plain)(l))
	if err != nil {
		return err
	}
	l.Extra = extra
	return nil
}

func (l Location) MarshalJSON() ([]byte, error) {
	type plain Location
	return joinExtra(plain(l), l.Extra)
}

func (l *LooseLoot) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	type plain LooseLoot
	extra, err := splitExtra(data, (*plain)(l))
	if err != nil {
		return err
	}
	l.Extra = extra
	return nil
}

func (l LooseLoot) MarshalJSON() ([]byte, error) {
	type plain LooseLoot
	return joinExtra(plain(l), l.Extra)
}

func (s *Spawnpoint) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	type plain Spawnpoint
	extra, err := splitExtra(data, (*plain)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s Spawnpoint) MarshalJSON() ([]byte, error) {
	type plain Spawnpoint
	return joinExtra(plain(s), s.Extra)
}

func (t *SpawnpointTemplate) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	type plain SpawnpointTemplate
	extra, err := splitExtra(data, (*plain)(t))
	if err != nil {
		return err
	}
	t.Extra = extra
	return nil
}

func (t SpawnpointTemplate) MarshalJSON() ([]byte, error) {
	type plain SpawnpointTemplate
	return joinExtra(plain(t), t.Extra)
}

func (i *TemplateItem) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	type plain TemplateItem
	extra, err := splitExtra(data, (*plain)(i))
	if err != nil {
		return err
	}
	i.Extra = extra
	return nil
}

func (i TemplateItem) MarshalJSON() ([]byte, error) {
	type plain TemplateItem
	return joinExtra(plain(i), i.Extra)
}
