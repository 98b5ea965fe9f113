package pattern

// Catalogue returns the built-in chat log patterns in precedence order.
// Overlapping entries rely on that order: the critical hit line contains the
// plain hit line, and the Hall of Fame global contains the plain global.
// Audit overlaps before reordering.
func Catalogue() []Pattern {
	return []Pattern{
		{0, `Critical hit - Additional damage! You inflicted (.*?) points of damage`, Combat, SelfCrit, []string{"damage"}},
		{1, `You inflicted (.*?) points of damage`, Combat, SelfHit, []string{"damage"}},
		{2, `You healed yourself (.*?) points`, Combat, SelfHeal, []string{"amount"}},
		{3, `Damage deflected!`, Combat, SelfDeflect, nil},
		{4, `You Evaded the attack`, Combat, SelfEvade, nil},
		{5, `You missed`, Combat, SelfMiss, nil},
		{6, `You have gained (.*?) experience in your (.*?) skill`, Skills, SelfSkillGain, []string{"exp", "skill"}},
		{7, `You received (.*?) x \((.*?)\) (?:Value: )?(.*?) PED`, Loot, SelfLoot, []string{"item", "quantity", "value"}},
		{8, `The target Dodged your attack`, Combat, TargetDodge, nil},
		{9, `The target Evaded your attack`, Combat, TargetEvade, nil},
		{10, `The target Jammed your attack`, Combat, TargetJam, nil},
		{11, `You took (.*?) points of damage`, Combat, TargetHit, []string{"damage"}},
		{12, `\[\] (.*?) killed a creature \((.*?)\) with a value of (.*?) PED! A record has been added to the Hall of Fame!`, Global, GlobalHuntHOF, []string{"actor", "creature", "value"}},
		{13, `\[\] (.*?) killed a creature \((.*?)\) with a value of (.*?) PED!`, Global, GlobalHunt, []string{"actor", "creature", "value"}},
		{14, `You were killed by`, Combat, SelfDeath, nil},
	}
}

// Default builds the built-in catalogue.
func Default() *Registry {
	return MustBuild(Catalogue())
}
