// Package static provides the offline horoscope variant: a fixed German
// one-liner per reel combination.
package static

import (
	"context"

	"github.com/sternbild/horoskop/internal/horoscope/domain"
)

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) ProvideHoroscope(_ context.Context, req domain.Request) ([]domain.Result, error) {
	slots, err := domain.SlotsForDice(req.Dice)
	if err != nil {
		return nil, err
	}

	text, ok := horoscopeByCombination[slots]
	if !ok {
		return nil, nil
	}
	return []domain.Result{{Message: text}}, nil
}

var horoscopeByCombination = map[domain.Combination]string{
	{domain.SlotLemon, domain.SlotLemon, domain.SlotGrape}: "Bleib einfach liegen.",
	{domain.SlotLemon, domain.SlotLemon, domain.SlotBar}:   "Morgens zwei Pfannen in die Eier und alles wird gut.",
	{domain.SlotLemon, domain.SlotLemon, domain.SlotSeven}: "Der Tag nimmt eine positive Wendung.",
	{domain.SlotLemon, domain.SlotGrape, domain.SlotLemon}: "Heute wird phänomenal enttäuschend.",
	{domain.SlotLemon, domain.SlotGrape, domain.SlotGrape}: "Dein Lebenslauf erhält heute einen neuen Eintrag.",
	{domain.SlotLemon, domain.SlotGrape, domain.SlotBar}:   "Dreh einfach wieder um.",
	{domain.SlotLemon, domain.SlotGrape, domain.SlotSeven}: "Weißt du noch, diese eine Deadline?",
	{domain.SlotLemon, domain.SlotBar, domain.SlotLemon}:   "Du verläufst dich heute in deiner Wohnung.",
	{domain.SlotLemon, domain.SlotBar, domain.SlotBar}:     "Der Abwasch entwickelt intelligentes Leben.",
	{domain.SlotLemon, domain.SlotBar, domain.SlotGrape}:   "Du stößt dir den kleinen Zeh.",
	{domain.SlotLemon, domain.SlotBar, domain.SlotSeven}:   "Bad hair day.",
	{domain.SlotLemon, domain.SlotSeven, domain.SlotLemon}: "Deine Freunde machen sich über deine Frisur lustig.",
	{domain.SlotLemon, domain.SlotSeven, domain.SlotBar}:   "Ein platter Autoreifen verändert heute dein Leben.",
	{domain.SlotLemon, domain.SlotSeven, domain.SlotGrape}: "Im Kühlschrank gibt es nichts zu sehen.",
	{domain.SlotLemon, domain.SlotSeven, domain.SlotSeven}: "Völlig übermüdet manövrierst du dich doch noch elegant durch den Tag in Richtung Bett.",
	{domain.SlotGrape, domain.SlotLemon, domain.SlotLemon}: "Du fängst schwach an, lässt dann aber auch stark nach.",
	{domain.SlotGrape, domain.SlotLemon, domain.SlotGrape}: "Eine sprechende Katze gibt dir einen guten Rat.",
	{domain.SlotGrape, domain.SlotLemon, domain.SlotBar}:   "Du wirst heute Zeuge eines prägenden Ereignisses.",
	{domain.SlotGrape, domain.SlotLemon, domain.SlotSeven}: "Eine Melone aus dem 3. Stock verfehlt dich haarscharf.",
	{domain.SlotGrape, domain.SlotGrape, domain.SlotLemon}: "7 Jahre Arbeit machen sich heute bezahlt.",
	{domain.SlotGrape, domain.SlotGrape, domain.SlotGrape}: "Trauben stampfen!",
	{domain.SlotGrape, domain.SlotGrape, domain.SlotBar}:   "Es sind nur 23 Dohlen, doch du witterst Gefahr.",
	{domain.SlotGrape, domain.SlotGrape, domain.SlotSeven}: "Arrangier dich mit einem Fisch in der Badewanne.",
	{domain.SlotGrape, domain.SlotBar, domain.SlotLemon}:   "Jemand erzählt dir, dass Enten eigentlich gar keine Tiere sind.",
	{domain.SlotGrape, domain.SlotBar, domain.SlotGrape}:   "Du verlierst dich heute in einer Diskussion über Elefantenbabys.",
	{domain.SlotGrape, domain.SlotBar, domain.SlotBar}:     "Ein spanischer Geheimagent reibt dich mit Apfelsaft ein und die Polizei schaut tatenlos zu.",
	{domain.SlotGrape, domain.SlotBar, domain.SlotSeven}:   "Eine Rinderherde nimmt dir die Vorfahrt.",
	{domain.SlotGrape, domain.SlotSeven, domain.SlotLemon}: "Etwas verschwindet heute plötzlich und du zweifelst an deiner mentalen Verfassung.",
	{domain.SlotGrape, domain.SlotSeven, domain.SlotGrape}: "Deine linke Socke hat heute Abend ein Loch.",
	{domain.SlotGrape, domain.SlotSeven, domain.SlotBar}:   "Ein Eichhörnchen klaut dein Portemonnaie.",
	{domain.SlotGrape, domain.SlotSeven, domain.SlotSeven}: "Du vergisst deine Schlüssel und wirst Millionär.",
	{domain.SlotBar, domain.SlotLemon, domain.SlotLemon}:   "Eine Bierdusche am späten Nachmittag wird dich erquicken.",
	{domain.SlotBar, domain.SlotLemon, domain.SlotGrape}:   "Heute wirst du dir einen Kater antrinken.",
	{domain.SlotBar, domain.SlotLemon, domain.SlotBar}:     "Heute hast du einen Kater.",
	{domain.SlotBar, domain.SlotLemon, domain.SlotSeven}:   "Du wachst besoffen auf und schläfst besoffen ein.",
	{domain.SlotBar, domain.SlotGrape, domain.SlotLemon}:   "Du erreichst heute deinen Wunschpegel.",
	{domain.SlotBar, domain.SlotGrape, domain.SlotGrape}:   "Heute hilft auch saufen nicht mehr.",
	{domain.SlotBar, domain.SlotGrape, domain.SlotBar}:     "Alkohol löst heute die meisten deiner Probleme.",
	{domain.SlotBar, domain.SlotGrape, domain.SlotSeven}:   "Heute wird vergleichsweise nüchtern.",
	{domain.SlotBar, domain.SlotBar, domain.SlotLemon}:     "Kenning West kommt heute aus der Ferne, alder.",
	{domain.SlotBar, domain.SlotBar, domain.SlotGrape}:     "Ein Überraschungstrichter gibt dir neuen Schwung.",
	{domain.SlotBar, domain.SlotBar, domain.SlotBar}:       "Saufen ist gesund.",
	{domain.SlotBar, domain.SlotBar, domain.SlotSeven}:     "2 Bier sind 1 Bier und dann darfst du auch noch fahren.",
	{domain.SlotBar, domain.SlotSeven, domain.SlotLemon}:   "Egal wie viel du heute trinkst, Torben trinkt mehr.",
	{domain.SlotBar, domain.SlotSeven, domain.SlotGrape}:   "Torben trinkt zu viel Alkohol.",
	{domain.SlotBar, domain.SlotSeven, domain.SlotBar}:     "Die Leber meldet sich.",
	{domain.SlotBar, domain.SlotSeven, domain.SlotSeven}:   "Der morgendliche Kurze wird sich rächen.",
	{domain.SlotSeven, domain.SlotLemon, domain.SlotLemon}: "Ausgeschlafen begibst du dich heute in die Abgründe deines Daseins.",
	{domain.SlotSeven, domain.SlotLemon, domain.SlotGrape}: "Du triffst heute dein Idol.",
	{domain.SlotSeven, domain.SlotLemon, domain.SlotBar}:   "Heute lebst du ein Leben wie Larry.",
	{domain.SlotSeven, domain.SlotLemon, domain.SlotSeven}: "Heute gibt dir jemand eine zweite Chance.",
	{domain.SlotSeven, domain.SlotGrape, domain.SlotLemon}: "Sag niemals niemals. Mist.",
	{domain.SlotSeven, domain.SlotGrape, domain.SlotGrape}: "Entweder du hörst heute auf zu rauchen oder du fängst damit an.",
	{domain.SlotSeven, domain.SlotGrape, domain.SlotBar}:   "Lass alles liegen und greif nach den Sternen.",
	{domain.SlotSeven, domain.SlotGrape, domain.SlotSeven}: "Lass dich nicht unterkriegen.",
	{domain.SlotSeven, domain.SlotBar, domain.SlotLemon}:   "Alles wird gut.",
	{domain.SlotSeven, domain.SlotBar, domain.SlotGrape}:   "Geh ein Risiko ein, du wirst es nicht bereuen.",
	{domain.SlotSeven, domain.SlotBar, domain.SlotBar}:     "Bereite dich auf etwas großes vor.",
	{domain.SlotSeven, domain.SlotBar, domain.SlotSeven}:   "Heute siehst du einen Ballon und freust dich.",
	{domain.SlotSeven, domain.SlotSeven, domain.SlotLemon}: "Du hättest heute alles schaffen können, aber brichst dir ein Bein.",
	{domain.SlotSeven, domain.SlotSeven, domain.SlotGrape}: "Du erreichst alle deine Ziele.",
	{domain.SlotSeven, domain.SlotSeven, domain.SlotBar}:   "Dein Leben hat heute endlich wieder Sinn.",
	{domain.SlotSeven, domain.SlotSeven, domain.SlotSeven}: "Niemand kann dich aufhalten!",
}
