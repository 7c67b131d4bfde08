package world

func (w *World) spawnEffect(at Vec2) {
	w.effects = append(w.effects, &Effect{
		Handle:    w.allocHandle(),
		Position:  at,
		Remaining: EffectLifetime,
	})
}

// UpdateEffects ages impact effects and drops the finished ones.
func (w *World) UpdateEffects() {
	kept := w.effects[:0]
	for _, effect := range w.effects {
		effect.Remaining--
		if effect.Remaining > 0 {
			kept = append(kept, effect)
		}
	}
	for i := len(kept); i < len(w.effects); i++ {
		w.effects[i] = nil
	}
	w.effects = kept
}
