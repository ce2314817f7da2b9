package roast

// FallbackTag receives confessions whose tag has no dedicated template list.
const FallbackTag = "#CringeText"

// Tags lists the confession categories users can pick from.
var Tags = []string{
	"#RedFlag",
	"#Betrayal",
	"#Boundaries",
	"#Ungrateful",
	"#Communication",
	"#Trust",
	"#LongDistance",
	"#Family",
	"#Ghosted",
	"#CringeText",
}

// KnownTag reports whether the tag is part of the fixed category set.
func KnownTag(tag string) bool {
	for _, known := range Tags {
		if known == tag {
			return true
		}
	}
	return false
}

var roastTemplates = map[string][]string{
	"#RedFlag": {
		"That's not a red flag, that's the whole Soviet Union parade 🚩",
		"Red flags are flying higher than a kite festival in this situation 🪁",
		"The red flags are so obvious, even colorblind people can see them 👀",
	},
	"#Ghosted": {
		"They disappeared faster than your motivation on Monday morning 👻",
		"You got ghosted so hard, Casper filed a restraining order 💀",
		"They vanished like your will to live during finals week ✨",
	},
	"#Betrayal": {
		"That betrayal hit harder than student loan payments 💸",
		"They really said 'trust me' and then chose violence 🔪",
		"The audacity is astronomical - NASA wants to study it 🚀",
	},
	"#Boundaries": {
		"Your boundaries are more optional than terms of service agreements 📋",
		"They respect your boundaries like cats respect closed doors 🚪",
		"Setting boundaries with them is like using a chocolate teapot ☕",
	},
	"#CringeText": {
		"That text was so cringe, it has its own gravitational pull 🌍",
		"The secondhand embarrassment could power a small city 🏙️",
		"You really typed that with your whole chest and hit send 📱",
	},
	"#Ungrateful": {
		"Their gratitude is rarer than a unicorn with good credit 🦄",
		"They appreciate things like vampires appreciate garlic 🧄",
		"You could give them the moon and they'd complain about the craters 🌙",
	},
}

var botLines = map[string][]string{
	"sad": {
		"🤖 Daily reminder: Your worth isn't determined by their reply time ✨",
		"💡 Fun fact: 'k' is not a conversation, it's an assassination 💀",
		"🔥 Remember: You're not the problem, their communication skills are 😌",
	},
	"cringe": {
		"🎯 Poll time! Ever sent a text to the wrong person? React if yes 🙋",
		"💀 Cringe tip: If it happened more than 5 years ago, it didn't happen ✨",
		"🤖 Bot wisdom: Everyone's too busy being awkward to judge your awkwardness 💯",
	},
	"chaotic": {
		"✨ Spread the chaos! Share the most unhinged thing you did this week 😈",
		"🎉 Celebration time! What small win are you weirdly proud of? 🏆",
		"💫 Chaos check: Tag someone who deserves a roast today! 🔥",
	},
	"lonely": {
		"🫂 You're not alone in feeling alone - we're all here together 💙",
		"🌟 Reminder: Loneliness is temporary, but the connections you make here are real ✨",
		"💭 Sometimes the best conversations start with 'I feel exactly the same way' 🤝",
	},
}
